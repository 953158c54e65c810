package services

// Evaluation is the result of reviewing an employee's record.
type Evaluation struct {
	Skipped       bool
	Average       float64
	Complaints    int
	Compliments   int
	NetComplaints int
	Demote        bool
	Bonus         bool
}

// EmployeeEvaluator applies the performance triggers:
//
//	demotion: average < 2 or net complaints >= 3
//	bonus:    average > 4 or compliments >= 3
//
// net complaints = max(upheld complaints − compliments, 0). Employees without ratings are
// not evaluated.
type EmployeeEvaluator struct{}

func NewEmployeeEvaluator() EmployeeEvaluator {
	return EmployeeEvaluator{}
}

func (EmployeeEvaluator) Evaluate(ratings Aggregate, upheldComplaints, compliments int) Evaluation {
	if ratings.Count == 0 {
		return Evaluation{Skipped: true}
	}

	net := max(upheldComplaints-compliments, 0)
	return Evaluation{
		Average:       ratings.Average,
		Complaints:    upheldComplaints,
		Compliments:   compliments,
		NetComplaints: net,
		Demote:        ratings.Average < 2 || net >= 3,
		Bonus:         ratings.Average > 4 || compliments >= 3,
	}
}

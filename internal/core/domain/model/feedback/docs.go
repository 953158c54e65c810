// Package feedback holds the inputs of the reputation and discipline engines: order
// ratings, complaints, compliments, manager memos and knowledge-base ratings.
//
// Ratings and complaints carry a weight of 2 when filed by a VIP and 1 otherwise.
// Memos are the audit trail every manager override and discipline action leaves behind.
package feedback

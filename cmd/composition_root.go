package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"auctiondelivery/internal/adapters/in/http"
	"auctiondelivery/internal/adapters/out/clock"
	"auctiondelivery/internal/adapters/out/payment"
	"auctiondelivery/internal/adapters/out/postgres"
	"auctiondelivery/internal/adapters/out/postgres/auctionrepo"
	"auctiondelivery/internal/adapters/out/postgres/catalogrepo"
	"auctiondelivery/internal/adapters/out/rabbitmq"
	"auctiondelivery/internal/adapters/out/redis"
	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/application/reputation"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/application/usecases/queries"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/jobs"
	"auctiondelivery/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency of the process. Handlers are built
// once; the auction handlers share the window timers.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	Registry      *prometheus.Registry
	domainMetrics *metrics.DomainMetrics
	jobMetrics    *metrics.JobMetrics

	clock    ports.Clock
	gateway  ports.PaymentGateway
	notifier ports.Notifier

	amqp        *rabbitmq.Connection
	Idempotency *redis.IdempotencyStore

	ledger     *ledger.Ledger
	discipline *discipline.Engine
	reputation *reputation.Engine
	timers     *jobs.BiddingWindowTimers

	handlers http.Handlers
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		Registry:   prometheus.NewRegistry(),
		clock:      clock.System{},
		gateway:    payment.NewSandboxGateway(logger),
	}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.domainMetrics = metrics.NewDomainMetrics(c.Registry)
	c.jobMetrics = metrics.NewJobMetrics(c.Registry)

	if err := c.connectOutbound(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.buildEngines(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.buildHandlers(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// connectOutbound dials RabbitMQ and Redis when they are configured. Without RabbitMQ
// notifications are only logged; without Redis Idempotency-Key is ignored.
func (c *CompositionRoot) connectOutbound(ctx context.Context) error {
	var pub rabbitmq.Publisher
	if c.cfg.AMQPURL != "" {
		conn, err := rabbitmq.Dial(c.cfg.AMQPURL, rabbitmq.DefaultExchange)
		if err != nil {
			return err
		}
		c.amqp = conn
		pub = conn.Channel()
	} else {
		c.logger.Warn("AMQP_URL is not set, notifications are logged only")
	}
	c.notifier = rabbitmq.NewNotifier(pub, rabbitmq.DefaultExchange, c.logger)

	if c.cfg.RedisAddr != "" {
		store, err := redis.New(ctx, c.cfg.RedisAddr)
		if err != nil {
			return err
		}
		c.Idempotency = store
	} else {
		c.logger.Warn("REDIS_ADDR is not set, Idempotency-Key headers are ignored")
	}
	return nil
}

func (c *CompositionRoot) buildEngines() error {
	var err error
	if c.ledger, err = ledger.NewLedger(c.gateway, c.clock, c.logger); err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	if c.discipline, err = discipline.NewEngine(c.ledger, c.clock, c.logger, c.domainMetrics); err != nil {
		return fmt.Errorf("failed to create discipline engine: %w", err)
	}
	aggregator := services.NewRatingAggregator(c.cfg.AbuseThreshold)
	if c.reputation, err = reputation.NewEngine(aggregator, c.clock, c.logger); err != nil {
		return fmt.Errorf("failed to create reputation engine: %w", err)
	}
	c.timers = jobs.NewBiddingWindowTimers(c.logger)
	return nil
}

func (c *CompositionRoot) buildHandlers() error {
	fee, err := kernel.MoneyFromString(c.cfg.BaseDeliveryFee)
	if err != nil {
		return fmt.Errorf("invalid base delivery fee: %w", err)
	}
	calculator, err := services.NewPriceCalculator(c.cfg.TaxRate, fee)
	if err != nil {
		return fmt.Errorf("failed to create price calculator: %w", err)
	}

	f := c.CreateUoWFactory()
	settings := commands.AuctionSettings{Window: c.cfg.BiddingWindow, Quorum: c.cfg.BidQuorum}

	vip := commands.NewCheckVIPUpgradeCommandHandler(f, c.notifier, c.clock, c.logger)
	openBidding := commands.NewOpenBiddingCommandHandler(f, settings, c.timers, c.notifier, c.clock, c.logger)
	closeBidding := commands.NewCloseBiddingCommandHandler(f, c.timers, c.notifier, c.clock, c.logger, c.domainMetrics)
	c.timers.Attach(closeBidding)

	c.handlers = http.Handlers{
		PlaceOrder: commands.NewPlaceOrderCommandHandler(f, catalogrepo.NewGormCatalog(c.gormDB), calculator,
			c.ledger, c.discipline, vip, openBidding, c.notifier, c.clock, c.logger, c.domainMetrics),
		SubmitBid: commands.NewSubmitBidCommandHandler(f, settings, c.timers, c.notifier, c.clock, c.logger,
			c.domainMetrics),
		CloseBidding: closeBidding,
		AssignDelivery: commands.NewAssignDeliveryCommandHandler(f, c.timers, c.notifier, c.clock, c.logger,
			c.domainMetrics),
		UpdateStatus:     commands.NewUpdateOrderStatusCommandHandler(f, c.ledger, vip, c.notifier, c.clock, c.logger),
		RateOrder:        commands.NewSubmitOrderRatingCommandHandler(f, c.reputation, c.discipline, c.notifier, c.clock, c.logger),
		AddDeposit:       commands.NewAddDepositCommandHandler(f, c.ledger, c.notifier, c.logger),
		CloseAccount:     commands.NewCloseCustomerAccountCommandHandler(f, c.ledger, c.notifier, c.logger),
		CheckVIP:         vip,
		FileComplaint:    commands.NewFileComplaintCommandHandler(f, c.notifier, c.clock),
		ResolveComplaint: commands.NewResolveComplaintCommandHandler(f, c.discipline, c.notifier, c.clock, c.logger),
		FileCompliment:   commands.NewFileComplimentCommandHandler(f, c.notifier, c.clock),
		AddWarning:       commands.NewAddWarningCommandHandler(f, c.discipline, c.notifier),
		Performance:      commands.NewApplyDemotionOrBonusCommandHandler(f, c.discipline, c.notifier, c.clock, c.logger),
		Evaluate:         commands.NewEvaluateEmployeeCommandHandler(f, c.reputation, c.discipline, c.notifier),
		RateAnswer:       commands.NewRateAnswerCommandHandler(f, c.reputation, c.clock),
		AckInbox:         commands.NewAckInboxMessageCommandHandler(c.CreateInboxUoWFactory(), c.clock),

		ActiveOrders: queries.NewGetActiveOrdersQueryHandler(c.gormDB),
		OrderDetails: queries.NewGetOrderDetailsQueryHandler(c.gormDB),
		RankedBids:   queries.NewGetRankedBidsQueryHandler(c.gormDB),
		Inbox:        queries.NewListManagerInboxQueryHandler(c.gormDB),
	}
	return nil
}

func (c *CompositionRoot) Handlers() http.Handlers {
	return c.handlers
}

// CreateJobManager wires the window timers and the expired-window sweep to the same
// close handler the timers were attached to, plus the pending refund retry.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	windows := auctionrepo.NewGormWindowRepository(c.gormDB)
	closeBidding := commands.NewCloseBiddingCommandHandler(c.CreateUoWFactory(), c.timers, c.notifier, c.clock,
		c.logger, c.domainMetrics)
	sweep := jobs.NewBiddingWindowSweepJob(windows, closeBidding, c.clock.Now, c.cfg.WindowSweepSpec,
		c.jobMetrics, c.logger)
	refunds := jobs.NewPendingRefundJob(c.ledger, c.uowFactory.Create(), c.cfg.RefundRetrySpec,
		c.jobMetrics, c.logger)
	return jobs.NewJobManager(c.timers, windows, sweep, refunds, c.logger)
}

func (c *CompositionRoot) CreateUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateInboxUoWFactory() commands.InboxUoWFactory {
	return FuncInboxUoWFactory(func() commands.InboxUoW {
		return c.uowFactory.Create()
	})
}

// Close releases the outbound connections. The database is closed by its owner.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.amqp != nil {
		errList = append(errList, c.amqp.Close())
	}
	if c.Idempotency != nil {
		errList = append(errList, c.Idempotency.Close())
	}
	return errors.Join(errList...)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncInboxUoWFactory func() commands.InboxUoW

func (f FuncInboxUoWFactory) Create() commands.InboxUoW {
	return f()
}

package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kevtech-systems/maziwa/internal/dnd"
	"github.com/kevtech-systems/maziwa/internal/observability"
	"github.com/kevtech-systems/maziwa/internal/shared"
	"github.com/kevtech-systems/maziwa/internal/sms"
)

// RunGuard prevents duplicate processing of an already-settled week.
type RunGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

const guardModule = "settlement"

// ServiceConfig collects the service dependencies.
type ServiceConfig struct {
	Repo      Repository
	DND       dnd.Repository
	Transport sms.Transport
	Guard     RunGuard
	Metrics   *observability.Metrics
	Logger    *slog.Logger
	// Timeout bounds one company's run so a slow gateway cannot stall the batch.
	Timeout time.Duration
	// Concurrency bounds parallel dispatch against the gateway.
	Concurrency int
}

// Service runs weekly settlements.
type Service struct {
	repo        Repository
	dnd         dnd.Repository
	transport   sms.Transport
	guard       RunGuard
	metrics     *observability.Metrics
	logger      *slog.Logger
	timeout     time.Duration
	concurrency int
}

// NewService constructs the service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        cfg.Repo,
		dnd:         cfg.DND,
		transport:   cfg.Transport,
		guard:       cfg.Guard,
		metrics:     cfg.Metrics,
		logger:      logger,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Run settles the week containing asOf for one company: aggregate intake,
// price it, notify every supplier-product group that delivered, and send the
// owner summaries. A data-quality problem in one group never aborts the
// others; a database failure aborts the whole run.
func (s *Service) Run(ctx context.Context, companyID int64, asOf time.Time) (*RunReport, error) {
	week := shared.WeekOf(asOf)
	guardKey := fmt.Sprintf("settlement:%d:%s", companyID, week.StartISO())
	if s.guard != nil {
		if err := s.guard.CheckAndInsert(ctx, guardKey, guardModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return nil, fmt.Errorf("%w: company %d week %s", ErrAlreadySettled, companyID, week.StartISO())
			}
			return nil, fmt.Errorf("settlement: run guard: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.run(ctx, companyID, week, asOf)
	if err != nil {
		// the week was not processed; release the guard so a retry can happen
		if s.guard != nil {
			if delErr := s.guard.Delete(context.WithoutCancel(ctx), guardKey); delErr != nil {
				s.logger.Error("release run guard", slog.String("key", guardKey), slog.Any("error", delErr))
			}
		}
		return nil, err
	}
	return report, nil
}

func (s *Service) run(ctx context.Context, companyID int64, week shared.Week, asOf time.Time) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.New(),
		CompanyID: companyID,
		Week:      week,
		AsOf:      asOf,
		StartedAt: time.Now(),
	}
	logger := s.logger.With(
		slog.String("run_id", report.RunID.String()),
		slog.Int64("company_id", companyID),
		slog.String("week_start", week.StartISO()),
	)

	company, err := s.repo.Company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	intake, err := s.repo.WeeklyIntake(ctx, companyID, week.Start(), asOf)
	if err != nil {
		return nil, err
	}

	rates, err := s.resolveRates(ctx, companyID, intake, logger)
	if err != nil {
		return nil, err
	}

	statements, noRate := BuildStatements(week, asOf, intake, func(product string) (decimal.Decimal, error) {
		rate, ok := rates[product]
		if !ok {
			return decimal.Zero, ErrNoRate
		}
		return rate, nil
	})

	var mu sync.Mutex
	record := func(res UnitResult) {
		mu.Lock()
		report.Results = append(report.Results, res)
		mu.Unlock()
		s.metrics.ObserveSettlementOutcome(string(res.Outcome))
	}

	for _, st := range noRate {
		logger.Warn("no rate for product, skipping group",
			slog.Int64("supplier_id", st.SupplierID),
			slog.String("product", st.Product),
		)
		record(UnitResult{SupplierID: st.SupplierID, Product: st.Product, Outcome: OutcomeSkippedNoRate})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, st := range statements {
		g.Go(func() error {
			record(s.dispatch(gctx, logger, company, week, asOf, st))
			return nil
		})
	}
	_ = g.Wait()

	s.sendOwnerSummaries(ctx, logger, company, week, asOf, statements, noRate)

	report.FinishedAt = time.Now()
	logger.Info("settlement run finished",
		slog.Int("groups", len(report.Results)),
		slog.Int("sent", report.Count(OutcomeSent)),
		slog.Int("skipped_no_rate", report.Count(OutcomeSkippedNoRate)),
		slog.Int("skipped_bad_phone", report.Count(OutcomeSkippedBadPhone)),
		slog.Int("failed_terminal", report.Count(OutcomeFailedTerminal)),
		slog.Int("failed_transient", report.Count(OutcomeFailedTransient)),
	)
	return report, nil
}

// resolveRates looks up the current unit rate once per distinct product.
// A missing rate is a data-quality condition handled per group; any other
// database error aborts the run.
func (s *Service) resolveRates(ctx context.Context, companyID int64, intake []IntakeRow, logger *slog.Logger) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	seen := make(map[string]bool)
	for _, row := range intake {
		if seen[row.Product] {
			continue
		}
		seen[row.Product] = true
		rate, err := s.repo.LatestRate(ctx, companyID, row.Product)
		if err != nil {
			if errors.Is(err, ErrNoRate) {
				continue
			}
			return nil, err
		}
		rates[row.Product] = rate
	}
	return rates, nil
}

func (s *Service) dispatch(ctx context.Context, logger *slog.Logger, company *CompanyInfo, week shared.Week, asOf time.Time, st Statement) UnitResult {
	res := UnitResult{SupplierID: st.SupplierID, Product: st.Product}

	phone := sms.NormalizeMSISDN(st.Phone)
	if !sms.ValidMSISDN(phone) {
		logger.Warn("invalid supplier phone, skipping",
			slog.Int64("supplier_id", st.SupplierID),
			slog.String("phone", st.Phone),
		)
		res.Outcome = OutcomeSkippedBadPhone
		return res
	}

	message := FormatSupplierMessage(company.Name, week, asOf, st)
	result, err := s.transport.Send(ctx, phone, message)
	if err != nil {
		logger.Warn("sms transport error",
			slog.Int64("supplier_id", st.SupplierID),
			slog.String("product", st.Product),
			slog.Any("error", err),
		)
		s.metrics.ObserveSMSSend("transport_error")
		res.Outcome = OutcomeFailedTransient
		res.Detail = err.Error()
		return res
	}
	s.metrics.ObserveSMSSend(result.StatusCode)

	switch {
	case result.Delivered():
		logger.Info("sms sent",
			slog.Int64("supplier_id", st.SupplierID),
			slog.String("product", st.Product),
		)
		res.Outcome = OutcomeSent
	case result.Terminal():
		logger.Warn("recipient unreachable, recording DND entry",
			slog.Int64("supplier_id", st.SupplierID),
			slog.String("status", result.Description),
		)
		if err := s.dnd.Record(ctx, dnd.Entry{
			SupplierID: st.SupplierID,
			Phone:      phone,
			Message:    message,
			Error:      result.Description,
		}); err != nil {
			logger.Error("record dnd entry", slog.Any("error", err))
		}
		res.Outcome = OutcomeFailedTerminal
		res.Detail = result.Description
	default:
		logger.Warn("sms not delivered",
			slog.Int64("supplier_id", st.SupplierID),
			slog.String("status", result.Description),
		)
		res.Outcome = OutcomeFailedTransient
		res.Detail = result.Description
	}
	return res
}

// sendOwnerSummaries is best effort: a summary failure is logged and never
// fails the supplier run.
func (s *Service) sendOwnerSummaries(ctx context.Context, logger *slog.Logger, company *CompanyInfo, week shared.Week, asOf time.Time, statements, noRate []Statement) {
	ownerPhone := sms.NormalizeMSISDN(company.OwnerPhone)
	if !sms.ValidMSISDN(ownerPhone) {
		logger.Warn("owner phone invalid, skipping summaries", slog.String("phone", company.OwnerPhone))
		return
	}

	daily, err := s.repo.DailySummary(ctx, company.ID, asOf)
	if err != nil {
		logger.Error("compute daily summary", slog.Any("error", err))
	} else if _, err := s.transport.Send(ctx, ownerPhone, FormatOwnerDaily(company.Name, *daily)); err != nil {
		logger.Warn("send daily summary", slog.Any("error", err))
	}

	weekly := s.weeklySummary(ctx, logger, company.ID, week, asOf, statements, noRate)
	if _, err := s.transport.Send(ctx, ownerPhone, FormatOwnerWeekly(company.Name, weekly)); err != nil {
		logger.Warn("send weekly summary", slog.Any("error", err))
	}
}

// weeklySummary aggregates across all groups. Net payable applies the same
// gross/deduction formula to the aggregate gross of priced groups; litres
// include unpriced groups since the quantity is known either way.
func (s *Service) weeklySummary(ctx context.Context, logger *slog.Logger, companyID int64, week shared.Week, asOf time.Time, statements, noRate []Statement) WeeklySummary {
	summary := WeeklySummary{Week: week, AsOf: asOf}
	suppliers := make(map[int64]struct{})
	for _, st := range statements {
		suppliers[st.SupplierID] = struct{}{}
		summary.TotalLitres = summary.TotalLitres.Add(st.Total)
		summary.Gross = summary.Gross.Add(st.Gross)
	}
	for _, st := range noRate {
		suppliers[st.SupplierID] = struct{}{}
		summary.TotalLitres = summary.TotalLitres.Add(st.Total)
	}
	summary.SupplierCount = len(suppliers)
	summary.Deduction = DeductionFor(summary.Gross)
	summary.NetPayable = summary.Gross.Sub(summary.Deduction)

	count, err := s.dnd.CountForCompanySince(ctx, companyID, week.Start())
	if err != nil {
		logger.Error("count dnd entries", slog.Any("error", err))
	} else {
		summary.DNDCount = count
	}
	return summary
}

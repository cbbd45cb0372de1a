package settlement

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kevtech-systems/maziwa/internal/dnd"
	"github.com/kevtech-systems/maziwa/internal/shared"
	"github.com/kevtech-systems/maziwa/internal/sms"
)

type companyData struct {
	info   CompanyInfo
	intake []IntakeRow
	rates  map[string]decimal.Decimal
	daily  DailySummary
}

type fakeRepo struct {
	companies map[int64]*companyData
	intakeErr error
}

func (f *fakeRepo) Company(_ context.Context, companyID int64) (*CompanyInfo, error) {
	c, ok := f.companies[companyID]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	info := c.info
	return &info, nil
}

func (f *fakeRepo) WeeklyIntake(_ context.Context, companyID int64, _, _ time.Time) ([]IntakeRow, error) {
	if f.intakeErr != nil {
		return nil, f.intakeErr
	}
	return f.companies[companyID].intake, nil
}

func (f *fakeRepo) LatestRate(_ context.Context, companyID int64, product string) (decimal.Decimal, error) {
	rate, ok := f.companies[companyID].rates[product]
	if !ok {
		return decimal.Zero, ErrNoRate
	}
	return rate, nil
}

func (f *fakeRepo) DailySummary(_ context.Context, companyID int64, day time.Time) (*DailySummary, error) {
	s := f.companies[companyID].daily
	s.Day = day
	return &s, nil
}

func (f *fakeRepo) ActiveCompanyIDs(context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(f.companies))
	for id := range f.companies {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeDND struct {
	mu      sync.Mutex
	entries []dnd.Entry
}

func (f *fakeDND) Record(_ context.Context, entry dnd.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeDND) CountForCompanySince(context.Context, int64, time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries), nil
}

func (f *fakeDND) RecentForCompany(context.Context, int64, int) ([]dnd.Entry, error) {
	return nil, nil
}

type fakeGuard struct {
	mu      sync.Mutex
	keys    map[string]bool
	deleted []string
}

func newFakeGuard() *fakeGuard { return &fakeGuard{keys: make(map[string]bool)} }

func (g *fakeGuard) CheckAndInsert(_ context.Context, key, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	g.keys[key] = true
	return nil
}

func (g *fakeGuard) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	g.deleted = append(g.deleted, key)
	return nil
}

const badOwnerPhone = "000"

func testCompany(id int64, ownerPhone string) *companyData {
	return &companyData{
		info:  CompanyInfo{ID: id, Name: "Kertai Choronok Milk Center", OwnerPhone: ownerPhone},
		rates: map[string]decimal.Decimal{"Milk": decimal.NewFromInt(45)},
	}
}

func newTestService(repo Repository, transport sms.Transport, dndRepo dnd.Repository, guard RunGuard) *Service {
	return NewService(ServiceConfig{
		Repo:      repo,
		DND:       dndRepo,
		Transport: transport,
		Guard:     guard,
		Timeout:   time.Minute,
	})
}

func TestRunSendsPerSupplierProductGroup(t *testing.T) {
	asOf := day(2025, time.June, 5) // Thursday
	company := testCompany(1, badOwnerPhone)
	company.intake = []IntakeRow{
		{SupplierID: 1, SupplierName: "S1", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(50)},
		{SupplierID: 1, SupplierName: "S1", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 4), Quantity: d(30)},
	}
	repo := &fakeRepo{companies: map[int64]*companyData{1: company}}
	transport := sms.NewRecordingTransport()

	svc := newTestService(repo, transport, &fakeDND{}, newFakeGuard())
	report, err := svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.Equal(t, 1, report.Count(OutcomeSent))

	sent := transport.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "+254700000001", sent[0].To)
	require.Contains(t, sent[0].Message, "Net Pay: 3560.00 KES")
	require.Contains(t, sent[0].Message, "DAY 2: 50L")
}

func TestRunIsFaultIsolatedPerGroup(t *testing.T) {
	asOf := day(2025, time.June, 7)
	company := testCompany(1, badOwnerPhone)
	company.rates["Cream"] = decimal.NewFromInt(120)
	company.intake = []IntakeRow{
		// X has no stock row for its product
		{SupplierID: 10, SupplierName: "X", Phone: "+254700000010", Product: "Mursik", Day: day(2025, time.June, 2), Quantity: d(5)},
		// Y has a bad phone
		{SupplierID: 11, SupplierName: "Y", Phone: "12345", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(10)},
		// Z is fine
		{SupplierID: 12, SupplierName: "Z", Phone: "+254700000012", Product: "Cream", Day: day(2025, time.June, 3), Quantity: d(20)},
	}
	repo := &fakeRepo{companies: map[int64]*companyData{1: company}}
	transport := sms.NewRecordingTransport()

	svc := newTestService(repo, transport, &fakeDND{}, newFakeGuard())
	report, err := svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)

	require.Equal(t, 1, report.Count(OutcomeSkippedNoRate))
	require.Equal(t, 1, report.Count(OutcomeSkippedBadPhone))
	require.Equal(t, 1, report.Count(OutcomeSent))

	sent := transport.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "+254700000012", sent[0].To)
	require.Contains(t, sent[0].Message, "Rate: 120.00 KES/L")
}

func TestRunRecordsTerminalFailures(t *testing.T) {
	asOf := day(2025, time.June, 7)
	company := testCompany(1, badOwnerPhone)
	company.intake = []IntakeRow{
		{SupplierID: 1, SupplierName: "S1", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(10)},
		{SupplierID: 2, SupplierName: "S2", Phone: "+254700000002", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(10)},
	}
	repo := &fakeRepo{companies: map[int64]*companyData{1: company}}
	transport := sms.NewRecordingTransport()
	transport.SetResult("+254700000001", sms.Result{StatusCode: "402", Description: "Recipient in DND list"})
	dndRepo := &fakeDND{}

	svc := newTestService(repo, transport, dndRepo, newFakeGuard())
	report, err := svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)

	require.Equal(t, 1, report.Count(OutcomeFailedTerminal))
	require.Equal(t, 1, report.Count(OutcomeSent))

	require.Len(t, dndRepo.entries, 1)
	entry := dndRepo.entries[0]
	require.Equal(t, int64(1), entry.SupplierID)
	require.Equal(t, "+254700000001", entry.Phone)
	require.Contains(t, entry.Error, "DND")
	require.NotEmpty(t, entry.Message)
}

func TestRunIsTenantScoped(t *testing.T) {
	asOf := day(2025, time.June, 7)
	// two companies with suppliers sharing a name and phone number
	companyA := testCompany(1, badOwnerPhone)
	companyA.intake = []IntakeRow{
		{SupplierID: 1, SupplierName: "Chebet", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(10)},
	}
	companyB := testCompany(2, badOwnerPhone)
	companyB.intake = []IntakeRow{
		{SupplierID: 9, SupplierName: "Chebet", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(999)},
	}
	companyB.rates["Milk"] = decimal.NewFromInt(100)
	repo := &fakeRepo{companies: map[int64]*companyData{1: companyA, 2: companyB}}
	transport := sms.NewRecordingTransport()

	svc := newTestService(repo, transport, &fakeDND{}, newFakeGuard())
	_, err := svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)

	sent := transport.Sent()
	require.Len(t, sent, 1)
	require.Contains(t, sent[0].Message, "Total: 10L")
	require.NotContains(t, sent[0].Message, "999")
	require.Contains(t, sent[0].Message, "Rate: 45.00")
}

func TestRunRejectsAlreadySettledWeek(t *testing.T) {
	asOf := day(2025, time.June, 7)
	company := testCompany(1, badOwnerPhone)
	repo := &fakeRepo{companies: map[int64]*companyData{1: company}}
	guard := newFakeGuard()

	svc := newTestService(repo, sms.NewRecordingTransport(), &fakeDND{}, guard)
	_, err := svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), 1, asOf)
	require.ErrorIs(t, err, ErrAlreadySettled)
}

func TestRunReleasesGuardOnInfrastructureFailure(t *testing.T) {
	asOf := day(2025, time.June, 7)
	company := testCompany(1, badOwnerPhone)
	repo := &fakeRepo{
		companies: map[int64]*companyData{1: company},
		intakeErr: errors.New("connection refused"),
	}
	guard := newFakeGuard()

	svc := newTestService(repo, sms.NewRecordingTransport(), &fakeDND{}, guard)
	_, err := svc.Run(context.Background(), 1, asOf)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAlreadySettled)
	require.Len(t, guard.deleted, 1)

	// the failed week can be retried
	repo.intakeErr = nil
	_, err = svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)
}

func TestRunSendsOwnerSummaries(t *testing.T) {
	asOf := day(2025, time.June, 5)
	company := testCompany(1, "+254711000000")
	company.intake = []IntakeRow{
		{SupplierID: 1, SupplierName: "S1", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(50)},
	}
	company.daily = DailySummary{
		IntakeLitres: d(50),
		SalesLitres:  d(40),
		Channels: []ChannelSales{
			{Channel: "Brookside", Quantity: d(30), Value: d(1350)},
			{Channel: "Local", Quantity: d(10), Value: d(600)},
		},
		CumulativeSales: d(1950),
		Variance:        d(-10),
	}
	repo := &fakeRepo{companies: map[int64]*companyData{1: company}}
	transport := sms.NewRecordingTransport()

	svc := newTestService(repo, transport, &fakeDND{}, newFakeGuard())
	_, err := svc.Run(context.Background(), 1, asOf)
	require.NoError(t, err)

	var ownerMessages []string
	for _, msg := range transport.Sent() {
		if msg.To == "+254711000000" {
			ownerMessages = append(ownerMessages, msg.Message)
		}
	}
	require.Len(t, ownerMessages, 2)

	joined := strings.Join(ownerMessages, "\n---\n")
	require.Contains(t, joined, "Variance (Sales - Intake): -10L")
	require.Contains(t, joined, "Suppliers: 1")
	// weekly net applies the tier schedule to the aggregate gross: 50*45=2250 -> 40
	require.Contains(t, joined, "Net Payable: 2210.00 KES")
}

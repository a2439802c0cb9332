package usecases

import (
	"context"
	"time"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/shared/logger"
)

type mockLicenseRepository struct {
	UpsertFunc              func(ctx context.Context, l *license.License) (bool, error)
	GetByKeyFunc            func(ctx context.Context, key license.Key) (*license.License, error)
	GetByKeyForUpdateFunc   func(ctx context.Context, key license.Key) (*license.License, error)
	GetBySubscriptionIDFunc func(ctx context.Context, subscriptionID string) (*license.License, error)
	UpdateFunc              func(ctx context.Context, l *license.License) error
}

func (m *mockLicenseRepository) Upsert(ctx context.Context, l *license.License) (bool, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, l)
	}
	return false, nil
}

func (m *mockLicenseRepository) GetByKey(ctx context.Context, key license.Key) (*license.License, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockLicenseRepository) GetByKeyForUpdate(ctx context.Context, key license.Key) (*license.License, error) {
	if m.GetByKeyForUpdateFunc != nil {
		return m.GetByKeyForUpdateFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockLicenseRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*license.License, error) {
	if m.GetBySubscriptionIDFunc != nil {
		return m.GetBySubscriptionIDFunc(ctx, subscriptionID)
	}
	return nil, nil
}

func (m *mockLicenseRepository) Update(ctx context.Context, l *license.License) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	return nil
}

type mockCreditRepository struct {
	UpsertPeriodFunc             func(ctx context.Context, p *credit.Period) error
	GetActivePeriodFunc          func(ctx context.Context, licenseID uint, date time.Time) (*credit.Period, error)
	GetActivePeriodForUpdateFunc func(ctx context.Context, licenseID uint, date time.Time) (*credit.Period, error)
	UpdateUsageFunc              func(ctx context.Context, p *credit.Period) error
}

func (m *mockCreditRepository) UpsertPeriod(ctx context.Context, p *credit.Period) error {
	if m.UpsertPeriodFunc != nil {
		return m.UpsertPeriodFunc(ctx, p)
	}
	return nil
}

func (m *mockCreditRepository) GetActivePeriod(ctx context.Context, licenseID uint, date time.Time) (*credit.Period, error) {
	if m.GetActivePeriodFunc != nil {
		return m.GetActivePeriodFunc(ctx, licenseID, date)
	}
	return nil, nil
}

func (m *mockCreditRepository) GetActivePeriodForUpdate(ctx context.Context, licenseID uint, date time.Time) (*credit.Period, error) {
	if m.GetActivePeriodForUpdateFunc != nil {
		return m.GetActivePeriodForUpdateFunc(ctx, licenseID, date)
	}
	return nil, nil
}

func (m *mockCreditRepository) UpdateUsage(ctx context.Context, p *credit.Period) error {
	if m.UpdateUsageFunc != nil {
		return m.UpdateUsageFunc(ctx, p)
	}
	return nil
}

type mockActivityRepository struct {
	AppendFunc func(ctx context.Context, a *license.Activity) error
}

func (m *mockActivityRepository) Append(ctx context.Context, a *license.Activity) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, a)
	}
	return nil
}

// mockTransactionManager runs the callback inline so use case logic is
// exercised without a database.
type mockTransactionManager struct {
	RunInTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTransactionFunc != nil {
		return m.RunInTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct {
	DebugFunc  func(msg string, args ...any)
	InfoFunc   func(msg string, args ...any)
	WarnFunc   func(msg string, args ...any)
	ErrorFunc  func(msg string, args ...any)
	DebugwFunc func(msg string, keysAndValues ...interface{})
	InfowFunc  func(msg string, keysAndValues ...interface{})
	WarnwFunc  func(msg string, keysAndValues ...interface{})
	ErrorwFunc func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, args ...any) {
	if m.DebugFunc != nil {
		m.DebugFunc(msg, args...)
	}
}

func (m *mockLogger) Info(msg string, args ...any) {
	if m.InfoFunc != nil {
		m.InfoFunc(msg, args...)
	}
}

func (m *mockLogger) Warn(msg string, args ...any) {
	if m.WarnFunc != nil {
		m.WarnFunc(msg, args...)
	}
}

func (m *mockLogger) Error(msg string, args ...any) {
	if m.ErrorFunc != nil {
		m.ErrorFunc(msg, args...)
	}
}

func (m *mockLogger) With(args ...any) logger.Interface {
	return m
}

func (m *mockLogger) Named(name string) logger.Interface {
	return m
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	if m.DebugwFunc != nil {
		m.DebugwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	if m.InfowFunc != nil {
		m.InfowFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if m.WarnwFunc != nil {
		m.WarnwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if m.ErrorwFunc != nil {
		m.ErrorwFunc(msg, keysAndValues...)
	}
}

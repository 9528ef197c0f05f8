package postgres_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/filmhaus/payment-service/internal/config"
	"github.com/filmhaus/payment-service/internal/domain"
	"github.com/filmhaus/payment-service/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testDatabase struct {
	container testcontainers.Container
	db        *postgres.DB
}

func setupTestDatabase(t *testing.T) *testDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := &config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Name:            "testdb",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := postgres.Connect(ctx, dbConfig, logger)
	require.NoError(t, err)

	require.NoError(t, db.EnsureSchema(ctx))

	td := &testDatabase{container: container, db: db}
	t.Cleanup(func() {
		td.db.Close()
		require.NoError(t, td.container.Terminate(context.Background()))
	})
	return td
}

func (td *testDatabase) cleanTables(t *testing.T) {
	t.Helper()
	_, err := td.db.Pool.Exec(context.Background(), "TRUNCATE TABLE payments;")
	require.NoError(t, err)
}

func newStoredPayment(t *testing.T, repo *postgres.PaymentRepository, orderID string) *domain.Payment {
	t.Helper()
	money, err := domain.NewMoney(5000, "eur")
	require.NoError(t, err)

	payment, err := domain.NewPayment("pi_"+uuid.NewString(), orderID, money)
	require.NoError(t, err)

	require.NoError(t, repo.Insert(context.Background(), payment))
	return payment
}

func TestPaymentRepository(t *testing.T) {
	td := setupTestDatabase(t)
	repo := postgres.NewPaymentRepository(td.db)
	ctx := context.Background()

	t.Run("insert and find round trip", func(t *testing.T) {
		td.cleanTables(t)
		payment := newStoredPayment(t, repo, "ORDER-100")

		byID, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.OrderID, byID.OrderID)
		assert.Equal(t, payment.AmountCents, byID.AmountCents)
		assert.Equal(t, domain.StatusCreated, byID.Status)
		assert.Nil(t, byID.PaidAt)

		byOrder, err := repo.FindByOrderID(ctx, "ORDER-100")
		require.NoError(t, err)
		assert.Equal(t, payment.ID, byOrder.ID)
	})

	t.Run("find misses map to PAYMENT_NOT_FOUND", func(t *testing.T) {
		td.cleanTables(t)

		_, err := repo.FindByID(ctx, "pi_ghost")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))

		_, err = repo.FindByOrderID(ctx, "ORDER-404")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))
	})

	t.Run("duplicate order id maps to DUPLICATE_ORDER", func(t *testing.T) {
		td.cleanTables(t)
		newStoredPayment(t, repo, "ORDER-100")

		money, err := domain.NewMoney(9999, "usd")
		require.NoError(t, err)
		dupe, err := domain.NewPayment("pi_other", "ORDER-100", money)
		require.NoError(t, err)

		err = repo.Insert(ctx, dupe)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeDuplicateOrder))
	})

	t.Run("mark paid succeeds exactly once", func(t *testing.T) {
		td.cleanTables(t)
		payment := newStoredPayment(t, repo, "ORDER-100")

		ok, err := repo.MarkPaid(ctx, payment.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.MarkPaid(ctx, payment.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, stored.Status)
		assert.NotNil(t, stored.PaidAt)
	})

	t.Run("mark paid on unknown id affects nothing", func(t *testing.T) {
		td.cleanTables(t)

		ok, err := repo.MarkPaid(ctx, "pi_ghost")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("mark refunded from created", func(t *testing.T) {
		td.cleanTables(t)
		payment := newStoredPayment(t, repo, "ORDER-100")

		ok, err := repo.MarkRefunded(ctx, payment.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, stored.Status)
		assert.NotNil(t, stored.RefundedAt)
	})

	t.Run("mark refunded from paid", func(t *testing.T) {
		td.cleanTables(t)
		payment := newStoredPayment(t, repo, "ORDER-100")

		ok, err := repo.MarkPaid(ctx, payment.ID)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.MarkRefunded(ctx, payment.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		td.cleanTables(t)
		payment := newStoredPayment(t, repo, "ORDER-100")

		ok, err := repo.MarkRefunded(ctx, payment.ID)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.MarkRefunded(ctx, payment.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.MarkPaid(ctx, payment.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, stored.Status)
	})

	t.Run("concurrent inserts for one order admit a single winner", func(t *testing.T) {
		td.cleanTables(t)

		const attempts = 8
		money, err := domain.NewMoney(5000, "eur")
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			payment, err := domain.NewPayment("pi_"+uuid.NewString(), "ORDER-RACE", money)
			require.NoError(t, err)

			wg.Add(1)
			go func(i int, p *domain.Payment) {
				defer wg.Done()
				errs[i] = repo.Insert(ctx, p)
			}(i, payment)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.True(t, domain.IsErrorCode(err, domain.ErrCodeDuplicateOrder))
			}
		}
		assert.Equal(t, 1, winners)
	})
}

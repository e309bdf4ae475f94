package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses. Tests substitute a
// pgxmock pool through it.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type enrollmentRepository struct {
	storage *Storage
}

type examRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Enrollments() repository.EnrollmentRepository {
	return &enrollmentRepository{storage: s}
}

func (s *Storage) Exams() repository.ExamRepository {
	return &examRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            student_email TEXT NOT NULL,
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL DEFAULT '',
            customer_tax_id TEXT NOT NULL DEFAULT '',
            total_cents BIGINT NOT NULL,
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            course_id TEXT NOT NULL,
            quantity INT NOT NULL,
            unit_price_cents BIGINT NOT NULL,
            validity_days INT,
            provisioned_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            method TEXT NOT NULL,
            status TEXT NOT NULL,
            amount_cents BIGINT NOT NULL,
            paid_at TIMESTAMPTZ,
            card_brand TEXT,
            card_last4 TEXT,
            installments INT,
            gateway_ref TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS gateway_events (
            id SERIAL PRIMARY KEY,
            event_id TEXT UNIQUE NOT NULL,
            order_number TEXT NOT NULL,
            status TEXT NOT NULL,
            received_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS enrollments (
            id SERIAL PRIMARY KEY,
            student_email TEXT NOT NULL,
            course_id TEXT NOT NULL,
            status TEXT NOT NULL,
            enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expires_at TIMESTAMPTZ,
            UNIQUE (student_email, course_id)
        )`,
		`CREATE TABLE IF NOT EXISTS module_exams (
            id SERIAL PRIMARY KEY,
            module_id BIGINT UNIQUE NOT NULL,
            title TEXT NOT NULL,
            passing_score INT NOT NULL,
            time_limit_minutes INT,
            is_required BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS exam_questions (
            id SERIAL PRIMARY KEY,
            exam_id BIGINT NOT NULL REFERENCES module_exams(id),
            position INT NOT NULL,
            text TEXT NOT NULL,
            correct_option_id BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS exam_options (
            id SERIAL PRIMARY KEY,
            question_id BIGINT NOT NULL REFERENCES exam_questions(id),
            position INT NOT NULL,
            text TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS exam_attempts (
            id SERIAL PRIMARY KEY,
            student_email TEXT NOT NULL,
            exam_id BIGINT NOT NULL REFERENCES module_exams(id),
            score INT NOT NULL,
            correct_answers INT NOT NULL,
            total_questions INT NOT NULL,
            passed BOOLEAN NOT NULL,
            submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS module_lessons (
            id SERIAL PRIMARY KEY,
            module_id BIGINT NOT NULL,
            position INT NOT NULL,
            title TEXT NOT NULL,
            is_required BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS lesson_progress (
            student_email TEXT NOT NULL,
            lesson_id BIGINT NOT NULL REFERENCES module_lessons(id),
            module_id BIGINT NOT NULL,
            watched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (student_email, lesson_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_student ON orders(student_email, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_enrollments_student ON enrollments(student_email, enrolled_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_exam_attempts_student ON exam_attempts(student_email, exam_id, submitted_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, payment *model.Payment) (*model.Order, error) {
	created := *order
	created.Items = append([]model.OrderItem(nil), order.Items...)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (number, student_email, customer_name, customer_phone, customer_tax_id, total_cents, status, payment_method)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                             RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.Number, order.StudentEmail, order.Customer.Name, order.Customer.Phone, order.Customer.TaxID,
			order.TotalCents, order.Status, order.PaymentMethod,
		).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, course_id, quantity, unit_price_cents, validity_days)
                            VALUES ($1, $2, $3, $4, $5) RETURNING id`
		for i := range created.Items {
			item := &created.Items[i]
			item.OrderID = created.ID
			if err := tx.QueryRow(ctx, insertItem, created.ID, item.CourseID, item.Quantity, item.UnitPriceCents, item.ValidityDays).Scan(&item.ID); err != nil {
				return err
			}
		}

		const insertPayment = `INSERT INTO payments (order_id, method, status, amount_cents, card_brand, card_last4, installments, gateway_ref)
                               VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
		return tx.QueryRow(ctx, insertPayment,
			created.ID, payment.Method, payment.Status, payment.AmountCents,
			payment.CardBrand, payment.CardLast4, payment.Installments, payment.GatewayRef,
		).Scan(&payment.ID)
	})
	if err != nil {
		return nil, err
	}

	payment.OrderID = created.ID
	return &created, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	const query = `SELECT id, number, student_email, customer_name, customer_phone, customer_tax_id, total_cents, status, payment_method, created_at, updated_at
                   FROM orders WHERE number=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, number).Scan(
		&o.ID, &o.Number, &o.StudentEmail, &o.Customer.Name, &o.Customer.Phone, &o.Customer.TaxID,
		&o.TotalCents, &o.Status, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	o.Customer.Email = o.StudentEmail

	items, err := r.itemsForOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *orderRepository) itemsForOrder(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, course_id, quantity, unit_price_cents, validity_days, provisioned_at
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.CourseID, &item.Quantity, &item.UnitPriceCents, &item.ValidityDays, &item.ProvisionedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, studentEmail string) ([]model.Order, error) {
	const query = `SELECT id, number, student_email, customer_name, customer_phone, customer_tax_id, total_cents, status, payment_method, created_at, updated_at
                   FROM orders WHERE student_email=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.StudentEmail, &o.Customer.Name, &o.Customer.Phone, &o.Customer.TaxID,
			&o.TotalCents, &o.Status, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Customer.Email = o.StudentEmail
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.itemsForOrder(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.storage.pool.Exec(ctx, query, status, orderID)
	return err
}

func (r *orderRepository) SelectUnprovisioned(ctx context.Context, limit int) ([]model.ProvisionJob, error) {
	// Keyed on the payment, which is authoritative for settlement: an order
	// whose status flip failed after the payment committed must still surface.
	const query = `SELECT oi.id, o.number, o.student_email, oi.course_id, oi.validity_days
                   FROM order_items oi
                   JOIN orders o ON o.id = oi.order_id
                   JOIN payments p ON p.order_id = o.id
                   WHERE p.status = 'paid' AND oi.provisioned_at IS NULL
                   ORDER BY oi.id
                   LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.ProvisionJob
	for rows.Next() {
		var job model.ProvisionJob
		if err := rows.Scan(&job.ItemID, &job.OrderNumber, &job.StudentEmail, &job.CourseID, &job.ValidityDays); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Payment, error) {
	const query = `SELECT p.id, p.order_id, o.number, p.method, p.status, p.amount_cents, p.paid_at,
                          p.card_brand, p.card_last4, p.installments, p.gateway_ref, p.created_at, p.updated_at
                   FROM payments p
                   JOIN orders o ON o.id = p.order_id
                   WHERE o.number=$1`
	var p model.Payment
	err := r.storage.pool.QueryRow(ctx, query, orderNumber).Scan(
		&p.ID, &p.OrderID, &p.OrderNumber, &p.Method, &p.Status, &p.AmountCents, &p.PaidAt,
		&p.CardBrand, &p.CardLast4, &p.Installments, &p.GatewayRef, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ApplyEvent writes the event ledger row and the conditional status update in
// one transaction: a transient failure rolls both back, so the gateway's retry
// of the same event id lands as a fresh delivery instead of a replay. A
// rejected transition keeps the event row, making redelivery of that exact
// event a no-op.
func (r *paymentRepository) ApplyEvent(ctx context.Context, paymentID int64, event model.WebhookEvent, from []model.PaymentStatus, paidAt *time.Time) (bool, bool, error) {
	allowed := make([]string, 0, len(from))
	for _, status := range from {
		allowed = append(allowed, string(status))
	}

	var fresh, applied bool
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const record = `INSERT INTO gateway_events (event_id, order_number, status)
                        VALUES ($1, $2, $3)
                        ON CONFLICT (event_id) DO NOTHING`
		tag, err := tx.Exec(ctx, record, event.EventID, event.OrderNumber, event.Status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		fresh = true

		const transition = `UPDATE payments
                            SET status=$1, paid_at=COALESCE($2, paid_at), updated_at=NOW()
                            WHERE id=$3 AND status = ANY($4)`
		tag, err = tx.Exec(ctx, transition, event.Status, paidAt, paymentID, allowed)
		if err != nil {
			return err
		}
		applied = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, false, err
	}
	return fresh, applied, nil
}

// --- EnrollmentRepository implementation ---

const selectEnrollment = `SELECT id, student_email, course_id, status, enrolled_at, expires_at
                          FROM enrollments WHERE student_email=$1 AND course_id=$2`

func (r *enrollmentRepository) ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error) {
	var enrollment model.Enrollment
	provisioned := false

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const markItem = `UPDATE order_items SET provisioned_at=NOW() WHERE id=$1 AND provisioned_at IS NULL`
		tag, err := tx.Exec(ctx, markItem, job.ItemID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		// A repeat purchase extends the remaining access window: the new
		// validity is added on top of GREATEST(NOW(), expires_at), so an
		// expired grant restarts from now and a live one keeps its balance.
		// A purchase of an unlimited course, or on top of an unlimited grant,
		// stays unlimited. The arithmetic lives in the upsert itself so the
		// row lock serializes concurrent renewals.
		const upsert = `INSERT INTO enrollments (student_email, course_id, status, enrolled_at, expires_at)
                        VALUES ($1, $2, 'active', NOW(),
                                CASE WHEN $3::INT IS NULL THEN NULL
                                     ELSE NOW() + make_interval(days => $3::INT) END)
                        ON CONFLICT (student_email, course_id) DO UPDATE
                        SET status = 'active',
                            expires_at = CASE
                                WHEN $3::INT IS NULL OR enrollments.expires_at IS NULL THEN NULL
                                ELSE GREATEST(NOW(), enrollments.expires_at) + make_interval(days => $3::INT)
                            END
                        RETURNING id, student_email, course_id, status, enrolled_at, expires_at`
		if err := tx.QueryRow(ctx, upsert, job.StudentEmail, job.CourseID, job.ValidityDays).Scan(
			&enrollment.ID, &enrollment.StudentEmail, &enrollment.CourseID,
			&enrollment.Status, &enrollment.EnrolledAt, &enrollment.ExpiresAt); err != nil {
			return err
		}
		provisioned = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !provisioned {
		return nil, false, nil
	}
	return &enrollment, true, nil
}

func (r *enrollmentRepository) Get(ctx context.Context, studentEmail, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.storage.pool.QueryRow(ctx, selectEnrollment, studentEmail, courseID).Scan(
		&e.ID, &e.StudentEmail, &e.CourseID, &e.Status, &e.EnrolledAt, &e.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	const query = `SELECT id, student_email, course_id, status, enrolled_at, expires_at
                   FROM enrollments WHERE student_email=$1 ORDER BY enrolled_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentEmail, &e.CourseID, &e.Status, &e.EnrolledAt, &e.ExpiresAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ExamRepository implementation ---

func (r *examRepository) GetExam(ctx context.Context, examID int64) (*model.ModuleExam, error) {
	const query = `SELECT id, module_id, title, passing_score, time_limit_minutes, is_required
                   FROM module_exams WHERE id=$1`
	var exam model.ModuleExam
	err := r.storage.pool.QueryRow(ctx, query, examID).Scan(
		&exam.ID, &exam.ModuleID, &exam.Title, &exam.PassingScore, &exam.TimeLimitMinutes, &exam.IsRequired)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	questions, err := r.loadQuestions(ctx, exam.ID)
	if err != nil {
		return nil, err
	}
	exam.Questions = questions
	return &exam, nil
}

func (r *examRepository) ExamByModule(ctx context.Context, moduleID int64) (*model.ModuleExam, error) {
	const query = `SELECT id FROM module_exams WHERE module_id=$1`
	var examID int64
	err := r.storage.pool.QueryRow(ctx, query, moduleID).Scan(&examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return r.GetExam(ctx, examID)
}

func (r *examRepository) loadQuestions(ctx context.Context, examID int64) ([]model.Question, error) {
	const questionQuery = `SELECT id, position, text, correct_option_id
                           FROM exam_questions WHERE exam_id=$1 ORDER BY position`
	rows, err := r.storage.pool.Query(ctx, questionQuery, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	index := make(map[int64]int)
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Position, &q.Text, &q.CorrectOptionID); err != nil {
			return nil, err
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	const optionQuery = `SELECT o.id, o.question_id, o.position, o.text
                         FROM exam_options o
                         JOIN exam_questions q ON q.id = o.question_id
                         WHERE q.exam_id=$1 ORDER BY q.position, o.position`
	optionRows, err := r.storage.pool.Query(ctx, optionQuery, examID)
	if err != nil {
		return nil, err
	}
	defer optionRows.Close()

	for optionRows.Next() {
		var (
			option     model.Option
			questionID int64
		)
		if err := optionRows.Scan(&option.ID, &questionID, &option.Position, &option.Text); err != nil {
			return nil, err
		}
		if i, ok := index[questionID]; ok {
			questions[i].Options = append(questions[i].Options, option)
		}
	}
	if err := optionRows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *examRepository) CreateAttempt(ctx context.Context, attempt *model.ExamAttempt) (*model.ExamAttempt, error) {
	const query = `INSERT INTO exam_attempts (student_email, exam_id, score, correct_answers, total_questions, passed, submitted_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	saved := *attempt
	err := r.storage.pool.QueryRow(ctx, query,
		attempt.StudentEmail, attempt.ExamID, attempt.Score, attempt.CorrectAnswers,
		attempt.TotalQuestions, attempt.Passed, attempt.SubmittedAt).Scan(&saved.ID)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *examRepository) AttemptsByStudent(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error) {
	const query = `SELECT id, student_email, exam_id, score, correct_answers, total_questions, passed, submitted_at
                   FROM exam_attempts WHERE student_email=$1 AND exam_id=$2 ORDER BY submitted_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, studentEmail, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ExamAttempt
	for rows.Next() {
		var a model.ExamAttempt
		if err := rows.Scan(&a.ID, &a.StudentEmail, &a.ExamID, &a.Score, &a.CorrectAnswers, &a.TotalQuestions, &a.Passed, &a.SubmittedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *examRepository) HasPassed(ctx context.Context, studentEmail string, examID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM exam_attempts WHERE student_email=$1 AND exam_id=$2 AND passed)`
	var passed bool
	if err := r.storage.pool.QueryRow(ctx, query, studentEmail, examID).Scan(&passed); err != nil {
		return false, err
	}
	return passed, nil
}

func (r *examRepository) MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) (bool, error) {
	const query = `INSERT INTO lesson_progress (student_email, lesson_id, module_id)
                   SELECT $1, id, module_id FROM module_lessons WHERE id=$2
                   ON CONFLICT (student_email, lesson_id) DO NOTHING`
	tag, err := r.storage.pool.Exec(ctx, query, studentEmail, lessonID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *examRepository) LessonCounts(ctx context.Context, studentEmail string, moduleID int64) (required, watched int, err error) {
	const query = `SELECT COUNT(*) FILTER (WHERE ml.is_required),
                          COUNT(lp.lesson_id) FILTER (WHERE ml.is_required)
                   FROM module_lessons ml
                   LEFT JOIN lesson_progress lp ON lp.lesson_id = ml.id AND lp.student_email = $1
                   WHERE ml.module_id = $2`
	if err := r.storage.pool.QueryRow(ctx, query, studentEmail, moduleID).Scan(&required, &watched); err != nil {
		return 0, 0, err
	}
	return required, watched, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

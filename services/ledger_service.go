package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appConfig "github.com/purevia/purevia-water-api/config"
)

// Ledger column layout, columns A-I. Row 1 is the header.
const (
	colName = iota
	colEmail
	colMobile
	colAddress
	colTotalPrice
	colPaymentMethod
	colConfirmed
	colDelivered
	colStatus
	ledgerColumns
)

var ledgerHeader = []string{
	"NAME", "EMAIL", "MOBILE", "ADDRESS", "TOTAL PRICE",
	"PAYMENT METHOD", "CONFIRMED", "DELIVERED", "STATUS",
}

// LedgerRow is the order snapshot appended to the remote ledger
type LedgerRow struct {
	Name          string
	Email         string
	Mobile        string
	Address       string
	TotalPrice    float64
	PaymentMethod string
}

// LedgerService mirrors order state to the remote reporting ledger.
// The ledger is advisory; the database stays authoritative. Rows are
// correlated to orders by email and scan order (first match), matching
// the fixed 9-column layout the reporting side reads.
type LedgerService interface {
	// AppendRow adds a new row with CONFIRMED=NO, DELIVERED=NO, STATUS=ACTIVE
	AppendRow(ctx context.Context, row LedgerRow) error

	// ConfirmRow sets CONFIRMED=YES on the first non-cancelled row for the
	// email. Re-confirming an already confirmed row is harmless; no match
	// is a no-op.
	ConfirmRow(ctx context.Context, email string) error

	// MarkDelivered sets DELIVERED=YES on the first confirmed,
	// non-cancelled row for the email. Returns ErrRowNotDeliverable when
	// no such row exists.
	MarkDelivered(ctx context.Context, email string) error

	// MarkCancelled sets STATUS=CANCELLED on the first confirmed,
	// undelivered, non-cancelled row for the email. No match is a no-op.
	MarkCancelled(ctx context.Context, email string) error
}

// S3LedgerService stores the ledger as a CSV object in S3. Every
// operation is a locked read-modify-write of the whole object; the
// ledger API has no finer-grained update.
type S3LedgerService struct {
	client *s3.Client
	bucket string
	key    string
	mu     sync.Mutex
}

var ledgerServiceInstance LedgerService

// InitLedgerService initializes the S3-backed ledger service
func InitLedgerService() (LedgerService, error) {
	cfg := appConfig.GetConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	ledgerServiceInstance = &S3LedgerService{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
		key:    cfg.LedgerObjectKey,
	}
	return ledgerServiceInstance, nil
}

// GetLedgerService returns the initialized ledger service instance
func GetLedgerService() LedgerService {
	return ledgerServiceInstance
}

// SetLedgerService sets the ledger service instance (primarily for testing)
func SetLedgerService(s LedgerService) {
	ledgerServiceInstance = s
}

// AppendRow adds a fresh unconfirmed row for a newly placed order
func (s *S3LedgerService) AppendRow(ctx context.Context, row LedgerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load(ctx)
	if err != nil {
		return err
	}
	rows = appendLedgerRow(rows, row)
	return s.save(ctx, rows)
}

// ConfirmRow marks the first non-cancelled row for the email as confirmed
func (s *S3LedgerService) ConfirmRow(ctx context.Context, email string) error {
	return s.update(ctx, func(rows [][]string) error {
		if i := findConfirmable(rows, email); i > 0 {
			rows[i][colConfirmed] = "YES"
		}
		return nil
	})
}

// MarkDelivered marks the first confirmed, non-cancelled row as delivered
func (s *S3LedgerService) MarkDelivered(ctx context.Context, email string) error {
	return s.update(ctx, func(rows [][]string) error {
		i := findDeliverable(rows, email)
		if i < 1 {
			return ErrRowNotDeliverable
		}
		rows[i][colDelivered] = "YES"
		return nil
	})
}

// MarkCancelled marks the first confirmed, undelivered, non-cancelled row
func (s *S3LedgerService) MarkCancelled(ctx context.Context, email string) error {
	return s.update(ctx, func(rows [][]string) error {
		if i := findCancellable(rows, email); i > 0 {
			rows[i][colStatus] = "CANCELLED"
		}
		return nil
	})
}

// update runs a mutation over the loaded rows and saves the result.
// Mutation errors abort without writing.
func (s *S3LedgerService) update(ctx context.Context, mutate func([][]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := mutate(rows); err != nil {
		return err
	}
	return s.save(ctx, rows)
}

// load fetches and parses the ledger CSV. A missing object yields a
// ledger containing only the header row.
func (s *S3LedgerService) load(ctx context.Context) ([][]string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return [][]string{ledgerHeader}, nil
		}
		return nil, fmt.Errorf("failed to fetch ledger object: %w", err)
	}
	defer out.Body.Close()

	reader := csv.NewReader(out.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger CSV: %w", err)
	}
	if len(rows) == 0 {
		rows = [][]string{ledgerHeader}
	}
	return rows, nil
}

// save writes the full ledger CSV back to S3
func (s *S3LedgerService) save(ctx context.Context, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode ledger CSV: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to store ledger object: %w", err)
	}
	return nil
}

// appendLedgerRow appends the CSV representation of a new order row
func appendLedgerRow(rows [][]string, row LedgerRow) [][]string {
	return append(rows, []string{
		row.Name,
		row.Email,
		row.Mobile,
		row.Address,
		strconv.FormatFloat(row.TotalPrice, 'f', -1, 64),
		row.PaymentMethod,
		"NO",     // CONFIRMED
		"NO",     // DELIVERED
		"ACTIVE", // STATUS
	})
}

// findConfirmable returns the index of the first row for the email whose
// STATUS is not CANCELLED, or -1. Index 0 is the header and never matches.
func findConfirmable(rows [][]string, email string) int {
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < ledgerColumns {
			continue
		}
		if rows[i][colEmail] == email && rows[i][colStatus] != "CANCELLED" {
			return i
		}
	}
	return -1
}

// findDeliverable returns the index of the first confirmed, non-cancelled
// row for the email, or -1
func findDeliverable(rows [][]string, email string) int {
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < ledgerColumns {
			continue
		}
		if rows[i][colEmail] == email &&
			rows[i][colConfirmed] == "YES" &&
			rows[i][colStatus] != "CANCELLED" {
			return i
		}
	}
	return -1
}

// findCancellable returns the index of the first confirmed, undelivered,
// non-cancelled row for the email, or -1
func findCancellable(rows [][]string, email string) int {
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < ledgerColumns {
			continue
		}
		if rows[i][colEmail] == email &&
			rows[i][colConfirmed] == "YES" &&
			rows[i][colDelivered] != "YES" &&
			rows[i][colStatus] != "CANCELLED" {
			return i
		}
	}
	return -1
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ghuser/salesdesk/pkg/database"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/telemetry"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/tabular"
)

const fileStamp = "20060102_150405"

// TransferService moves data in and out of the store: CSV export and
// import, and database backups.
type TransferService struct {
	db         *database.Database
	purchases  repositories.PurchaseRepository
	products   repositories.ProductRepository
	customers  repositories.CustomerRepository
	retention  *RetentionPolicy
	log        logger.Logger
	metrics    *telemetry.Recorder
	exportsDir string
	backupsDir string
	maxRecent  int
	now        func() time.Time
}

// TransferServiceDeps groups the collaborators of a TransferService.
type TransferServiceDeps struct {
	DB         *database.Database
	Purchases  repositories.PurchaseRepository
	Products   repositories.ProductRepository
	Customers  repositories.CustomerRepository
	Retention  *RetentionPolicy
	Log        logger.Logger
	Metrics    *telemetry.Recorder
	ExportsDir string
	BackupsDir string
	MaxRecent  int
}

// NewTransferService returns a TransferService wired with deps.
func NewTransferService(deps TransferServiceDeps) *TransferService {
	return &TransferService{
		db:         deps.DB,
		purchases:  deps.Purchases,
		products:   deps.Products,
		customers:  deps.Customers,
		retention:  deps.Retention,
		log:        deps.Log,
		metrics:    deps.Metrics,
		exportsDir: deps.ExportsDir,
		backupsDir: deps.BackupsDir,
		maxRecent:  deps.MaxRecent,
		now:        time.Now,
	}
}

// ExportResult describes a written export file.
type ExportResult struct {
	Path string
	Rows int
}

// Export writes every purchase, oldest first, to a new timestamped CSV file
// in the exports directory. With no purchases the file holds only the header.
func (s *TransferService) Export(ctx context.Context) (*ExportResult, error) {
	ctx, span := tracer.Start(ctx, "sales.data.export")
	defer span.End()

	views, err := s.purchases.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	path := filepath.Join(s.exportsDir, "purchases_"+s.now().Format(fileStamp)+".csv")
	if err := os.MkdirAll(s.exportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	if err := tabular.WritePurchases(f, views); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close export file: %w", err)
	}

	s.metrics.FileWritten(ctx, "export")
	s.log.InfoContext(ctx, "purchases exported", "path", path, "rows", len(views))
	return &ExportResult{Path: path, Rows: len(views)}, nil
}

// Backup writes a consistent copy of the database to a new timestamped file
// in the backups directory and returns its path.
func (s *TransferService) Backup(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "sales.data.backup")
	defer span.End()

	path := filepath.Join(s.backupsDir, "sales_"+s.now().Format(fileStamp)+".db")
	if err := s.db.Backup(ctx, path); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	s.metrics.FileWritten(ctx, "backup")
	s.log.InfoContext(ctx, "database backed up", "path", path)
	return path, nil
}

// SnapshotResult holds the outcome of each half of a snapshot. A half that
// failed leaves its field empty.
type SnapshotResult struct {
	Export     *ExportResult
	BackupPath string
}

// Snapshot runs Export and Backup concurrently. One failing does not stop
// the other; the returned error joins both failures.
func (s *TransferService) Snapshot(ctx context.Context) (*SnapshotResult, error) {
	var (
		res                  SnapshotResult
		exportErr, backupErr error
		g                    errgroup.Group
	)
	g.Go(func() error {
		res.Export, exportErr = s.Export(ctx)
		return nil
	})
	g.Go(func() error {
		res.BackupPath, backupErr = s.Backup(ctx)
		return nil
	})
	_ = g.Wait()
	return &res, errors.Join(exportErr, backupErr)
}

// ImportResult summarizes an import.
type ImportResult struct {
	Rows             int
	Inserted         int
	Skipped          int
	ProductsCreated  int
	CustomersCreated int
}

// Import loads an export file. Every row is parsed and checked before
// anything is written; a single bad row rejects the whole file. Missing
// products and customers are created from the row's names. Invoice ids
// already in the store are skipped, never overwritten.
func (s *TransferService) Import(ctx context.Context, path string) (*ImportResult, error) {
	ctx, span := tracer.Start(ctx, "sales.data.import")
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		return nil, salesdomain.Invalid("open import file: %v", err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := tabular.ReadPurchases(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", salesdomain.ErrValidation, filepath.Base(path), err)
	}
	if err := checkImportRows(rows); err != nil {
		return nil, err
	}
	views := make([]*models.PurchaseView, len(rows))
	for i, row := range rows {
		views[i] = row.View
	}

	res := &ImportResult{Rows: len(views)}
	if err := s.ensureReferences(ctx, views, res); err != nil {
		return nil, err
	}

	ps := make([]*models.Purchase, 0, len(views))
	for _, v := range views {
		ps = append(ps, &v.Purchase)
	}
	if res.Inserted, err = s.purchases.Import(ctx, ps); err != nil {
		return nil, fmt.Errorf("import purchases: %w", err)
	}
	res.Skipped = res.Rows - res.Inserted

	if _, err := s.retention.Enforce(ctx, s.maxRecent); err != nil {
		s.log.WarnContext(ctx, "retention enforcement failed after import", "error", err)
	}
	s.log.InfoContext(ctx, "purchases imported",
		"path", path, "rows", res.Rows, "inserted", res.Inserted, "skipped", res.Skipped)
	return res, nil
}

func checkImportRows(rows []tabular.PurchaseRow) error {
	seen := make(map[string]bool, len(rows))
	var errs []error
	for _, row := range rows {
		v, line := row.View, row.Line
		cur, err := models.NormalizeCurrency(v.Currency)
		if err != nil {
			errs = append(errs, &tabular.RowError{Line: line, Err: err})
			continue
		}
		v.Currency = cur
		if seen[v.InvoiceID] {
			errs = append(errs, &tabular.RowError{Line: line, Err: fmt.Errorf("invoice id %s repeated in file", v.InvoiceID)})
			continue
		}
		seen[v.InvoiceID] = true
		if err := domainsvcs.ValidatePurchase(&v.Purchase); err != nil {
			errs = append(errs, &tabular.RowError{Line: line, Err: err})
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", salesdomain.ErrValidation, errors.Join(errs...))
	}
	return nil
}

func (s *TransferService) ensureReferences(ctx context.Context, views []*models.PurchaseView, res *ImportResult) error {
	products := map[models.SKU]bool{}
	customers := map[string]bool{}

	for _, v := range views {
		if !products[v.ProductSKU] {
			created, err := s.ensureProduct(ctx, v)
			if err != nil {
				return err
			}
			if created {
				res.ProductsCreated++
			}
			products[v.ProductSKU] = true
		}
		if id := v.CustomerID.String(); !customers[id] {
			created, err := s.ensureCustomer(ctx, v)
			if err != nil {
				return err
			}
			if created {
				res.CustomersCreated++
			}
			customers[id] = true
		}
	}
	return nil
}

func (s *TransferService) ensureProduct(ctx context.Context, v *models.PurchaseView) (bool, error) {
	_, err := s.products.GetBySKU(ctx, v.ProductSKU)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, salesdomain.ErrProductNotFound) {
		return false, fmt.Errorf("look up product %s: %w", v.ProductSKU, err)
	}

	name := v.ProductName
	if domainsvcs.ValidateName(name) != nil {
		name = v.ProductSKU.String()
	}
	p := models.NewProduct(v.ProductSKU, name, v.UnitPrice, s.now())
	if err := s.products.Save(ctx, p); err != nil {
		return false, fmt.Errorf("create product %s: %w", v.ProductSKU, err)
	}
	return true, nil
}

func (s *TransferService) ensureCustomer(ctx context.Context, v *models.PurchaseView) (bool, error) {
	_, err := s.customers.GetByID(ctx, v.CustomerID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, salesdomain.ErrCustomerNotFound) {
		return false, fmt.Errorf("look up customer %s: %w", v.CustomerID, err)
	}

	c := models.NewCustomer(v.CustomerName, s.now())
	c.ID = v.CustomerID
	if domainsvcs.ValidateName(c.Name) != nil {
		c.Name = "Customer " + v.CustomerID.String()[:8]
	}
	c.Email = v.CustomerEmail
	if c.Email != "" {
		if other, err := s.customers.FindByEmail(ctx, c.Email); err == nil {
			s.log.WarnContext(ctx, "import: email already belongs to another customer, leaving it blank",
				"customer_id", c.ID, "other_id", other.ID)
			c.Email = ""
		}
	}
	if err := domainsvcs.ValidateCustomer(c); err != nil {
		c.Email = ""
	}
	if err := s.customers.Save(ctx, c); err != nil {
		return false, fmt.Errorf("create customer %s: %w", v.CustomerID, err)
	}
	return true, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/export"
	"github.com/jeranaias/shuaib-registry/internal/share"
	"github.com/jeranaias/shuaib-registry/internal/student"
	"github.com/jeranaias/shuaib-registry/internal/util"
)

// Texts shown by the dashboard.
const (
	Title             = "سجل الطلاب المركزي"
	CountLabel        = "عدد الطلاب المقيدين"
	SearchPlaceholder = "بحث بالاسم، القرية، التخصص أو الجامعة..."
	EmptyTitle        = "لا يوجد بيانات مسجلة حالياً"
	EmptyHint         = "ابدأ بإضافة الطلاب من تبويب \"إدخال البيانات\""

	DeletePrompt = "هل أنت متأكد من حذف هذا السجل؟"
	ClearPrompt  = "تحذير: سيتم مسح كافة البيانات المسجلة. هل أنت متأكد؟"
	NoDataNotice = "لا توجد بيانات لتصديرها."
)

// ErrNoRecords is returned by exports that refuse an empty registry.
var ErrNoRecords = errors.New("dashboard: no records to export")

// =============================================================================
// CAPABILITIES
// =============================================================================

// Store is the part of the record store the dashboard needs.
type Store interface {
	Records() []student.Record
	Remove(id string) (bool, error)
	Clear() error
}

// Confirmer asks a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Answer is a Confirmer with a fixed reply, used once the question has been
// answered elsewhere (for example in a modal or via --yes).
type Answer bool

// Confirm implements Confirmer.
func (a Answer) Confirm(string) bool { return bool(a) }

// Notifier shows a short notice to the user.
type Notifier interface {
	Notify(message string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(message string)

// Notify implements Notifier.
func (f NotifyFunc) Notify(message string) { f(message) }

// Downloader saves a produced file and returns its location.
type Downloader interface {
	Download(name string, content []byte) (string, error)
}

// DirDownloader saves downloads into a directory.
type DirDownloader struct {
	Dir string
}

// Download implements Downloader.
func (d DirDownloader) Download(name string, content []byte) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return path, nil
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard holds the search term and runs dashboard actions.
type Dashboard struct {
	store      Store
	opener     share.Opener
	notifier   Notifier
	downloader Downloader
	recipient  string
	exportOpts *export.Options
	logger     *zap.Logger

	term string
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithOpener sets the opener for deep links and the print view.
func WithOpener(o share.Opener) Option { return func(d *Dashboard) { d.opener = o } }

// WithNotifier sets where notices go.
func WithNotifier(n Notifier) Option { return func(d *Dashboard) { d.notifier = n } }

// WithDownloader sets where text downloads are saved.
func WithDownloader(dl Downloader) Option { return func(d *Dashboard) { d.downloader = dl } }

// WithRecipient sets the WhatsApp number exports are sent to.
func WithRecipient(number string) Option { return func(d *Dashboard) { d.recipient = number } }

// WithExportOptions sets the options used for rendered files.
func WithExportOptions(o *export.Options) Option {
	return func(d *Dashboard) {
		if o != nil {
			d.exportOpts = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dashboard over store.
func New(store Store, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:      store,
		opener:     share.DefaultOpener(),
		notifier:   NotifyFunc(func(string) {}),
		recipient:  share.DefaultRecipient,
		exportOpts: export.DefaultOptions(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.downloader == nil {
		d.downloader = DirDownloader{Dir: d.exportOpts.OutputDir}
	}
	return d
}

// SetSearch sets the filter term. Filtering is view-only.
func (d *Dashboard) SetSearch(term string) { d.term = term }

// Search returns the current filter term.
func (d *Dashboard) Search() string { return d.term }

// Visible returns the records matching the search term, newest first.
func (d *Dashboard) Visible() []student.Record {
	return student.Filter(d.store.Records(), d.term)
}

// Count returns the total number of records, ignoring the filter.
func (d *Dashboard) Count() int { return len(d.store.Records()) }

// =============================================================================
// DESTRUCTIVE ACTIONS
// =============================================================================

// Delete removes the record with the given id after confirmation.
// It reports whether a record was removed.
func (d *Dashboard) Delete(id string, c Confirmer) (bool, error) {
	if !c.Confirm(DeletePrompt) {
		return false, nil
	}
	removed, err := d.store.Remove(id)
	if err != nil {
		return false, err
	}
	if removed {
		d.logger.Info("record deleted", zap.String("id", id))
	}
	return removed, nil
}

// ClearAll removes every record after the stronger confirmation.
// It reports whether the registry was cleared.
func (d *Dashboard) ClearAll(c Confirmer) (bool, error) {
	if !c.Confirm(ClearPrompt) {
		return false, nil
	}
	if err := d.store.Clear(); err != nil {
		return false, err
	}
	d.logger.Info("registry cleared")
	return true, nil
}

// =============================================================================
// EXPORTS
// =============================================================================

// ShareWhatsApp opens the delegate's chat with the numbered summary of all
// records and returns the link. An empty registry shows NoDataNotice and
// returns ErrNoRecords.
func (d *Dashboard) ShareWhatsApp() (string, error) {
	records := d.store.Records()
	if len(records) == 0 {
		d.notifier.Notify(NoDataNotice)
		return "", ErrNoRecords
	}

	link := share.Link(d.recipient, export.WhatsAppMessage(records))
	if err := d.opener.Open(link); err != nil {
		d.logger.Warn("could not open whatsapp export", zap.Error(err))
		return link, fmt.Errorf("open whatsapp: %w", err)
	}
	return link, nil
}

// DownloadText saves the plain-text listing of all records and returns the
// saved path. An empty registry shows NoDataNotice and returns ErrNoRecords.
func (d *Dashboard) DownloadText() (string, error) {
	records := d.store.Records()
	if len(records) == 0 {
		d.notifier.Notify(NoDataNotice)
		return "", ErrNoRecords
	}

	exporter := export.NewTextExporter(d.exportOpts)
	content, err := exporter.Export(records)
	if err != nil {
		return "", err
	}
	name := export.FileName(d.now(), exporter.FileExtension())
	return d.downloader.Download(name, content)
}

// Print renders the printable sheet of all records, ignoring the search
// term, and opens it. The page prints itself once loaded. Returns the path
// of the rendered page.
func (d *Dashboard) Print() (string, error) {
	path, err := export.ExportToFile(d.store.Records(), export.NewHTMLExporter(d.exportOpts), d.exportOpts)
	if err != nil {
		return "", err
	}
	if err := d.opener.Open(path); err != nil {
		d.logger.Warn("could not open print view", zap.Error(err), zap.String("path", path))
		return path, fmt.Errorf("open print view: %w", err)
	}
	return path, nil
}

// Export writes all records in the named format into the export directory.
func (d *Dashboard) Export(format string) (string, error) {
	exporter, err := export.ForFormat(format, d.exportOpts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(d.store.Records(), exporter, d.exportOpts)
}

func (d *Dashboard) now() time.Time {
	if d.exportOpts.Now != nil {
		return d.exportOpts.Now()
	}
	return time.Now()
}

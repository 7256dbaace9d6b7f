package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"Backend-Plotter/internal/app/ds"
	"Backend-Plotter/internal/app/pipeline"
	"Backend-Plotter/internal/app/repository"
)

const sampleCSV = `Time,A,B
2024-01-01,1,10
2024-01-02,2,20
2024-01-03,3,30
2024-01-04,4,40
2024-01-05,5,50
`

type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int
	failPut bool
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: make(map[string][]byte)}
}

func (a *fakeArchive) SaveUpload(_ context.Context, sessionID, filename string, data []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failPut {
		return "", errors.New("storage unavailable")
	}
	a.seq++
	name := fmt.Sprintf("sessions/%s/%d_%s", sessionID, a.seq, filename)
	a.objects[name] = append([]byte(nil), data...)
	return name, nil
}

func (a *fakeArchive) GetUpload(_ context.Context, objectName string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.objects[objectName]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (a *fakeArchive) DeleteUpload(_ context.Context, objectName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.objects, objectName)
	return nil
}

type fakeLogger struct {
	mu      sync.Mutex
	entries []ds.UploadLog
}

func (l *fakeLogger) CreateUploadLog(_ context.Context, entry *ds.UploadLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *entry)
	return nil
}

type touchRecorder struct {
	repository.SessionStore
	mu      sync.Mutex
	touched []string
}

func (r *touchRecorder) Touch(ctx context.Context, id string) error {
	r.mu.Lock()
	r.touched = append(r.touched, id)
	r.mu.Unlock()
	return r.SessionStore.Touch(ctx, id)
}

func newTestController(t *testing.T) (*Controller, *fakeArchive, *fakeLogger) {
	t.Helper()
	archive := newFakeArchive()
	logger := &fakeLogger{}
	c := NewController(repository.NewMemorySessionStore(time.Hour), archive, logger)
	return c, archive, logger
}

func mustSession(t *testing.T, c *Controller) *ds.Session {
	t.Helper()
	s, err := c.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return s
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func date(s string) time.Time {
	d, _ := ds.ParseDate(s)
	return d
}

func TestUploadSetsDefaults(t *testing.T) {
	c, archive, logger := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)

	updated, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	if updated.Table.Len() != 5 {
		t.Errorf("Expected 5 rows, got %d", updated.Table.Len())
	}
	if !updated.Params.StartDate.Equal(date("2024-01-01")) || !updated.Params.EndDate.Equal(date("2024-01-05")) {
		t.Errorf("Unexpected default range %+v", updated.Params)
	}
	if updated.Params.WindowSize != ds.DefaultWindowSize {
		t.Errorf("Expected window %d, got %d", ds.DefaultWindowSize, updated.Params.WindowSize)
	}
	if updated.ObjectName == "" || len(archive.objects) != 1 {
		t.Errorf("Expected upload to be archived, got %q (%d objects)", updated.ObjectName, len(archive.objects))
	}
	if len(logger.entries) != 1 || logger.entries[0].Status != ds.UploadStatusParsed || logger.entries[0].Rows != 5 {
		t.Errorf("Unexpected upload log %+v", logger.entries)
	}
}

func TestUploadReplacesPrevious(t *testing.T) {
	c, archive, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)

	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	if _, err := c.UpdateParams(ctx, s.ID, ds.ParamsUpdate{WindowSize: intPtr(2)}); err != nil {
		t.Fatalf("Failed to update params: %v", err)
	}

	second := "Time,C\n2023-06-01,7\n2023-06-02,8\n"
	updated, err := c.Upload(ctx, s.ID, "other.csv", []byte(second))
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	if len(updated.Table.Columns) != 1 || updated.Table.Columns[0] != "C" {
		t.Errorf("Expected table to be replaced, got columns %v", updated.Table.Columns)
	}
	if updated.Params.WindowSize != ds.DefaultWindowSize {
		t.Errorf("Expected params reset on upload, got window %d", updated.Params.WindowSize)
	}
	if len(archive.objects) != 1 {
		t.Errorf("Expected previous archived file to be removed, got %d objects", len(archive.objects))
	}
}

func TestUploadParseErrorKeepsState(t *testing.T) {
	c, _, logger := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)

	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	_, err := c.Upload(ctx, s.ID, "bad.csv", []byte("Date,A\n2024-01-01,1\n"))
	var parseErr *pipeline.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}

	loaded, err := c.GetSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded.Filename != "data.csv" || loaded.Table.Len() != 5 {
		t.Errorf("Expected previous state to be kept, got %s with %d rows", loaded.Filename, loaded.Table.Len())
	}
	if len(logger.entries) != 2 || logger.entries[1].Status != ds.UploadStatusFailed || logger.entries[1].Error == "" {
		t.Errorf("Expected failed attempt to be logged, got %+v", logger.entries)
	}
}

func TestUploadArchiveFailure(t *testing.T) {
	c, archive, _ := newTestController(t)
	archive.failPut = true
	ctx := context.Background()
	s := mustSession(t, c)

	updated, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Expected upload to succeed without archive, got %v", err)
	}
	if updated.ObjectName != "" {
		t.Errorf("Expected no object name, got %q", updated.ObjectName)
	}
	if _, _, err := c.UploadedFile(ctx, s.ID); !errors.Is(err, ErrNoArchive) {
		t.Errorf("Expected ErrNoArchive, got %v", err)
	}
}

func TestUploadUnknownSession(t *testing.T) {
	c, _, _ := newTestController(t)
	_, err := c.Upload(context.Background(), "missing", "data.csv", []byte(sampleCSV))
	if !IsNotFound(err) {
		t.Errorf("Expected session not found, got %v", err)
	}
}

func TestUpdateParams(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)

	if _, err := c.UpdateParams(ctx, s.ID, ds.ParamsUpdate{WindowSize: intPtr(3)}); !errors.Is(err, ErrNoTable) {
		t.Fatalf("Expected ErrNoTable before upload, got %v", err)
	}
	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	tests := []struct {
		name       string
		update     ds.ParamsUpdate
		wantWindow int
		wantStart  string
		wantErr    bool
	}{
		{"partial start", ds.ParamsUpdate{StartDate: strPtr("2024-01-02")}, 5, "2024-01-02", false},
		{"window clamped", ds.ParamsUpdate{WindowSize: intPtr(1000)}, ds.MaxWindowSize, "2024-01-02", false},
		{"window zero rejected", ds.ParamsUpdate{WindowSize: intPtr(0)}, ds.MaxWindowSize, "2024-01-02", true},
		{"bad date rejected", ds.ParamsUpdate{EndDate: strPtr("01.05.2024")}, ds.MaxWindowSize, "2024-01-02", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.UpdateParams(ctx, s.ID, tt.update)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}

			loaded, _ := c.GetSession(ctx, s.ID)
			if loaded.Params.WindowSize != tt.wantWindow {
				t.Errorf("Expected window %d, got %d", tt.wantWindow, loaded.Params.WindowSize)
			}
			if got := loaded.Params.StartDate.Format(ds.DateLayout); got != tt.wantStart {
				t.Errorf("Expected start %s, got %s", tt.wantStart, got)
			}
		})
	}
}

func TestUpdateParamsWindowErrorType(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)
	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	_, err := c.UpdateParams(ctx, s.ID, ds.ParamsUpdate{WindowSize: intPtr(-2)})
	var windowErr *pipeline.InvalidWindowError
	if !errors.As(err, &windowErr) || windowErr.Window != -2 {
		t.Errorf("Expected InvalidWindowError for -2, got %v", err)
	}
}

func TestView(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)

	if _, _, err := c.View(ctx, s.ID); !errors.Is(err, ErrNoTable) {
		t.Fatalf("Expected ErrNoTable, got %v", err)
	}

	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	update := ds.ParamsUpdate{
		StartDate:  strPtr("2024-01-02"),
		EndDate:    strPtr("2024-01-04"),
		WindowSize: intPtr(2),
	}
	if _, err := c.UpdateParams(ctx, s.ID, update); err != nil {
		t.Fatalf("Failed to update params: %v", err)
	}

	result, session, err := c.View(ctx, s.ID)
	if err != nil {
		t.Fatalf("Failed to build view: %v", err)
	}
	if session.Params.WindowSize != 2 {
		t.Errorf("Expected window 2, got %d", session.Params.WindowSize)
	}
	if result.Table.Len() != 3 {
		t.Fatalf("Expected 3 records, got %d", result.Table.Len())
	}

	want := []interface{}{nil, 2.5, 3.5}
	for i, rec := range result.Table.Records {
		if rec["A"] != want[i] {
			t.Errorf("Record %d: expected A=%v, got %v", i, want[i], rec["A"])
		}
	}
	if result.Chart.Title != "2024-01-02 to 2024-01-04 (data.csv)" {
		t.Errorf("Unexpected title %q", result.Chart.Title)
	}
}

func TestViewOutOfRange(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)
	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	update := ds.ParamsUpdate{StartDate: strPtr("2030-01-01"), EndDate: strPtr("2030-12-31")}
	if _, err := c.UpdateParams(ctx, s.ID, update); err != nil {
		t.Fatalf("Failed to update params: %v", err)
	}

	result, _, err := c.View(ctx, s.ID)
	if err != nil {
		t.Fatalf("Failed to build view: %v", err)
	}
	if result.Table.Len() != 0 {
		t.Errorf("Expected empty table, got %d records", result.Table.Len())
	}
	for _, tr := range result.Chart.Traces {
		if len(tr.Points) != 0 {
			t.Errorf("Expected empty trace %s, got %d points", tr.Name, len(tr.Points))
		}
	}
}

func TestUploadedFile(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)
	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	data, session, err := c.UploadedFile(ctx, s.ID)
	if err != nil {
		t.Fatalf("Failed to get uploaded file: %v", err)
	}
	if string(data) != sampleCSV || session.Filename != "data.csv" {
		t.Errorf("Unexpected archived file %s", session.Filename)
	}
}

func TestDeleteSession(t *testing.T) {
	c, archive, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)
	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	if err := c.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := c.GetSession(ctx, s.ID); !IsNotFound(err) {
		t.Errorf("Expected session to be gone, got %v", err)
	}
	if len(archive.objects) != 0 {
		t.Errorf("Expected archived file to be removed, got %d objects", len(archive.objects))
	}
	if err := c.DeleteSession(ctx, s.ID); !IsNotFound(err) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}

func TestPlot(t *testing.T) {
	c := NewController(repository.NewMemorySessionStore(time.Hour), nil, nil)

	result, params, err := c.Plot("data.csv", []byte(sampleCSV), &ds.ParamsUpdate{WindowSize: intPtr(1)})
	if err != nil {
		t.Fatalf("Failed to plot: %v", err)
	}
	if params.WindowSize != 1 || !params.StartDate.Equal(date("2024-01-01")) {
		t.Errorf("Unexpected params %+v", params)
	}
	if len(result.Chart.Traces) != 2 || result.Table.Len() != 5 {
		t.Errorf("Expected 2 traces and 5 records, got %d and %d", len(result.Chart.Traces), result.Table.Len())
	}

	if _, _, err := c.Plot("data.txt", []byte(sampleCSV), nil); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	c, _, _ := newTestController(t)
	ctx := context.Background()
	s := mustSession(t, c)
	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			if _, err := c.UpdateParams(ctx, s.ID, ds.ParamsUpdate{WindowSize: intPtr(w)}); err != nil {
				t.Errorf("Failed to update params: %v", err)
			}
			if _, _, err := c.View(ctx, s.ID); err != nil {
				t.Errorf("Failed to build view: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := c.locks.size(); n != 0 {
		t.Errorf("Expected all locks released, got %d", n)
	}
}

func TestViewRefreshesSession(t *testing.T) {
	store := &touchRecorder{SessionStore: repository.NewMemorySessionStore(time.Hour)}
	c := NewController(store, nil, nil)
	ctx := context.Background()
	s := mustSession(t, c)

	if _, err := c.Upload(ctx, s.ID, "data.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	if _, _, err := c.View(ctx, s.ID); err != nil {
		t.Fatalf("Failed to build view: %v", err)
	}

	if len(store.touched) != 1 || store.touched[0] != s.ID {
		t.Errorf("Expected session %s to be refreshed once, got %v", s.ID, store.touched)
	}
}

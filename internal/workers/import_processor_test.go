// internal/workers/import_processor_test.go
package workers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/smartstock-be/internal/adapters/redis_adapter"
	"github.com/ammerola/smartstock-be/internal/adapters/storage"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
	"github.com/ammerola/smartstock-be/internal/workers"
	"github.com/ammerola/smartstock-be/test/helpers"
	"github.com/ammerola/smartstock-be/test/mocks"
)

type processorFixture struct {
	inventory *mocks.MockInventoryService
	insights  *mocks.MockInsightService
	storage   *storage.LocalStorage
	jobs      *workers.JobTracker
	metrics   *metrics.Metrics
	processor *workers.ImportProcessor
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	r := helpers.SetupTestRedis(t)
	f := &processorFixture{
		inventory: mocks.NewMockInventoryService(ctrl),
		insights:  mocks.NewMockInsightService(ctrl),
		storage:   storage.NewLocalStorage(t.TempDir(), helpers.TestLogger()),
		jobs:      workers.NewJobTracker(redis_a.NewCache(r.Client, time.Hour, "test", helpers.TestLogger()), time.Hour),
		metrics:   metrics.New(nil),
	}
	f.processor = workers.NewImportProcessor(f.inventory, f.insights, f.storage, f.jobs, f.metrics, helpers.TestLogger())
	return f
}

func movementWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Movements")
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestImportProcessor_Process(t *testing.T) {
	csvRecords := []importer.Record{{SKU: "LOG-MXM-3S-BK", Type: domain.TransactionIn, Quantity: 5}}
	candidates := []importer.Candidate{{Brand: "Sony", Name: "WH-1000XM5", Quantity: 4, Price: decimal.NewFromInt(399000)}}

	tests := []struct {
		name        string
		kind        workers.Kind
		data        func(t *testing.T) []byte
		setupMocks  func(*processorFixture)
		wantUpdated int
		wantItems   int
		wantErr     error
	}{
		{
			name: "csv_goes_through_interpreter",
			kind: workers.KindCSV,
			data: func(*testing.T) []byte { return []byte("sku,type,quantity\nLOG-MXM-3S-BK,IN,5") },
			setupMocks: func(f *processorFixture) {
				f.insights.EXPECT().InterpretCSV(gomock.Any(), "sku,type,quantity\nLOG-MXM-3S-BK,IN,5").Return(csvRecords, nil)
				f.inventory.EXPECT().ApplyTransactions(gomock.Any(), "CSV", csvRecords).Return(1, nil)
			},
			wantUpdated: 1,
		},
		{
			name: "excel_is_read_without_interpreter",
			kind: workers.KindExcel,
			data: func(t *testing.T) []byte {
				return movementWorkbook(t, [][]string{
					{"SKU", "Type", "Quantity"},
					{"NIKE-AJ1-RED-270", "out", "1"},
					{"LOG-MXM-3S-BK", "IN", "3"},
				})
			},
			setupMocks: func(f *processorFixture) {
				f.inventory.EXPECT().
					ApplyTransactions(gomock.Any(), "Excel", []importer.Record{
						{SKU: "NIKE-AJ1-RED-270", Type: domain.TransactionOut, Quantity: 1},
						{SKU: "LOG-MXM-3S-BK", Type: domain.TransactionIn, Quantity: 3},
					}).
					Return(2, nil)
			},
			wantUpdated: 2,
		},
		{
			name:       "unreadable_workbook",
			kind:       workers.KindExcel,
			data:       func(*testing.T) []byte { return []byte("not a workbook") },
			setupMocks: func(*processorFixture) {},
			wantErr:    workers.ErrUnreadableFile,
		},
		{
			name:       "unreadable_pdf",
			kind:       workers.KindPDF,
			data:       func(*testing.T) []byte { return []byte("%PDF-garbage") },
			setupMocks: func(*processorFixture) {},
			wantErr:    workers.ErrUnreadableFile,
		},
		{
			name: "text_creates_items",
			kind: workers.KindText,
			data: func(*testing.T) []byte { return []byte("Sony WH-1000XM5 x4 399000") },
			setupMocks: func(f *processorFixture) {
				f.insights.EXPECT().InterpretBulkText(gomock.Any(), "Sony WH-1000XM5 x4 399000").Return(candidates, nil)
				f.inventory.EXPECT().
					ImportItems(gomock.Any(), candidates).
					Return([]domain.InventoryItem{{ID: "gen-1", SKU: "SON-7", Name: "WH-1000XM5"}}, nil)
			},
			wantUpdated: 1,
			wantItems:   1,
		},
		{
			name: "interpretation_failure_passes_through",
			kind: workers.KindText,
			data: func(*testing.T) []byte { return []byte("???") },
			setupMocks: func(f *processorFixture) {
				f.insights.EXPECT().InterpretBulkText(gomock.Any(), gomock.Any()).Return(nil, services.ErrInterpretation)
			},
			wantErr: services.ErrInterpretation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProcessorFixture(t)
			tt.setupMocks(f)

			result, err := f.processor.Process(context.Background(), tt.kind, tt.data(t))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, result.Updated)
			assert.Len(t, result.Items, tt.wantItems)
		})
	}
}

func importTask(t *testing.T, payload workers.ImportPayload) *asynq.Task {
	t.Helper()
	task, err := workers.NewImportTask(payload)
	require.NoError(t, err)
	return task
}

func TestImportProcessor_ProcessTask_Completes(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	_, err := f.storage.Upload(ctx, "uploads/csv/job-1", bytes.NewReader([]byte("sku,type,quantity")), "text/csv")
	require.NoError(t, err)
	require.NoError(t, f.jobs.Save(ctx, &workers.JobStatus{JobID: "job-1", Kind: workers.KindCSV, Status: workers.StatusQueued}))

	records := []importer.Record{{SKU: "APP-MBP-14-GR", Type: domain.TransactionOut, Quantity: 2}}
	f.insights.EXPECT().InterpretCSV(gomock.Any(), "sku,type,quantity").Return(records, nil)
	f.inventory.EXPECT().ApplyTransactions(gomock.Any(), "CSV", records).Return(1, nil)

	task := importTask(t, workers.ImportPayload{JobID: "job-1", Kind: workers.KindCSV, StorageKey: "uploads/csv/job-1"})
	require.NoError(t, f.processor.ProcessTask(ctx, task))

	status, err := f.jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, workers.StatusCompleted, status.Status)
	assert.Equal(t, 1, status.Updated)
	assert.False(t, status.CreatedAt.After(status.UpdatedAt))

	exists, err := f.storage.Exists(ctx, "uploads/csv/job-1")
	require.NoError(t, err)
	assert.False(t, exists, "processed upload is deleted")
}

func TestImportProcessor_ProcessTask_Failures(t *testing.T) {
	tests := []struct {
		name       string
		upload     bool
		setupMocks func(*processorFixture)
	}{
		{
			name:   "interpretation_error_is_not_retried",
			upload: true,
			setupMocks: func(f *processorFixture) {
				f.insights.EXPECT().
					InterpretBulkText(gomock.Any(), gomock.Any()).
					Return(nil, errors.Join(services.ErrInterpretation, errors.New("malformed")))
			},
		},
		{
			name:       "missing_upload_is_not_retried",
			upload:     false,
			setupMocks: func(*processorFixture) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProcessorFixture(t)
			ctx := context.Background()
			tt.setupMocks(f)

			if tt.upload {
				_, err := f.storage.Upload(ctx, "uploads/text/job-2", bytes.NewReader([]byte("garbled")), "text/plain")
				require.NoError(t, err)
			}

			task := importTask(t, workers.ImportPayload{JobID: "job-2", Kind: workers.KindText, StorageKey: "uploads/text/job-2"})
			err := f.processor.ProcessTask(ctx, task)

			require.ErrorIs(t, err, asynq.SkipRetry)

			status, err := f.jobs.Get(ctx, "job-2")
			require.NoError(t, err)
			assert.Equal(t, workers.StatusFailed, status.Status)
			assert.NotEmpty(t, status.Error)
		})
	}
}

func TestImportProcessor_ProcessTask_BadPayload(t *testing.T) {
	f := newProcessorFixture(t)

	err := f.processor.ProcessTask(context.Background(), asynq.NewTask(workers.TypeImportCSV, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewImportTask(t *testing.T) {
	task, err := workers.NewImportTask(workers.ImportPayload{JobID: "j", Kind: workers.KindPDF, StorageKey: "uploads/pdf/j"})
	require.NoError(t, err)
	assert.Equal(t, workers.TypeImportPDF, task.Type())

	var payload workers.ImportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "uploads/pdf/j", payload.StorageKey)

	_, err = workers.NewImportTask(workers.ImportPayload{Kind: "docx"})
	assert.Error(t, err)
}

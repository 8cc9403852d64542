package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"consumables/internal/period"
	"consumables/internal/report"
	"consumables/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

type AggregateResponse struct {
	Period        period.Window   `json:"period"`
	Rows          []report.Row    `json:"rows"`
	TotalQuantity int             `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// ExportFile is a ready-to-download CSV report. Data is empty when the window
// has no rows.
type ExportFile struct {
	FileName string
	Data     []byte
}

type ReportService interface {
	Aggregate(ctx context.Context, kind period.Kind, ref time.Time) (AggregateResponse, error)
	Export(ctx context.Context, kind period.Kind, ref time.Time, withEquipment bool) (ExportFile, error)
	Trends(ctx context.Context, topN int) (report.Trends, error)
}

type reportService struct {
	store      repository.Store
	aggregator *report.Aggregator
	loc        *time.Location
}

func NewReportService(store repository.Store, loc *time.Location, tag language.Tag) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{store: store, aggregator: report.NewAggregator(tag), loc: loc}
}

func (s *reportService) Aggregate(ctx context.Context, kind period.Kind, ref time.Time) (AggregateResponse, error) {
	window := period.Resolve(kind, ref.In(s.loc))

	logs, err := s.store.Requests.ListBetween(ctx, window.Range.Start, window.Range.End)
	if err != nil {
		return AggregateResponse{}, fmt.Errorf("failed to load requests: %w", err)
	}
	items, err := s.store.Items.All(ctx)
	if err != nil {
		return AggregateResponse{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	rows := s.aggregator.Aggregate(logs, report.CatalogIndex(items), window.Range)
	res := AggregateResponse{Period: window, Rows: rows, TotalCost: decimal.Zero}
	for _, r := range rows {
		res.TotalQuantity += r.TotalQuantity
		res.TotalCost = res.TotalCost.Add(r.TotalCost)
	}
	return res, nil
}

func (s *reportService) Export(ctx context.Context, kind period.Kind, ref time.Time, withEquipment bool) (ExportFile, error) {
	agg, err := s.Aggregate(ctx, kind, ref)
	if err != nil {
		return ExportFile{}, err
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, agg.Rows, withEquipment); err != nil {
		return ExportFile{}, fmt.Errorf("failed to write export: %w", err)
	}
	return ExportFile{FileName: report.ExportFileName(agg.Period), Data: buf.Bytes()}, nil
}

func (s *reportService) Trends(ctx context.Context, topN int) (report.Trends, error) {
	logs, err := s.store.Requests.All(ctx)
	if err != nil {
		return report.Trends{}, fmt.Errorf("failed to load requests: %w", err)
	}
	return report.ComputeTrends(logs, s.loc, topN), nil
}

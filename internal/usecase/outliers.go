package usecase

import (
	"fmt"
	"io"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	dsvc "FinDash/internal/domain/service"
	"FinDash/internal/services/features"
	"FinDash/pkg/util"
)

// Outliers runs the detector for the report page and the CSV download.
type Outliers struct {
	ds       *models.Dataset
	detector dsvc.OutlierDetector
	exporter drepo.DatasetExporter
	metrics  drepo.Metrics
}

// NewOutliers creates a new Outliers instance.
func NewOutliers(
	ds *models.Dataset,
	detector dsvc.OutlierDetector,
	exporter drepo.DatasetExporter,
	metrics drepo.Metrics,
) *Outliers {
	return &Outliers{
		ds:       ds,
		detector: detector,
		exporter: exporter,
		metrics:  metrics,
	}
}

// Report classifies the dataset and previews at most limit flagged rows.
func (o *Outliers) Report(p models.OutlierParams, limit int) (models.OutlierReport, error) {
	res, err := o.detect(p)
	if err != nil {
		return models.OutlierReport{}, err
	}

	preview := res.Rows
	if limit >= 0 && len(preview) > limit {
		preview = preview[:limit]
	}
	th := res.Thresholds
	return models.OutlierReport{
		Q1:            models.Number(th.Q1),
		Q3:            models.Number(th.Q3),
		IQR:           models.Number(th.IQR),
		Upper:         models.Number(th.Upper),
		Lower:         models.Number(th.Lower),
		K:             models.Number(p.K),
		FlagLow:       p.FlagLow,
		ThresholdText: res.ThresholdText(),
		Count:         res.Count,
		Total:         models.Number(res.Total),
		TotalFm:       util.FormatAmount(res.Total),
		Preview:       features.TableOf(o.ds, preview, res.Count),
	}, nil
}

// Export writes every flagged row to w in source format and returns the
// number of rows written.
func (o *Outliers) Export(w io.Writer, p models.OutlierParams) (int, error) {
	res, err := o.detect(p)
	if err != nil {
		return 0, err
	}
	if err := o.exporter.Export(w, o.ds, res.Rows); err != nil {
		o.metrics.RecordError("outliers_export")
		return 0, fmt.Errorf("export outliers: %w", err)
	}
	return res.Count, nil
}

func (o *Outliers) detect(p models.OutlierParams) (models.OutlierResult, error) {
	start := time.Now()
	if err := o.ds.Require(models.ColAmount); err != nil {
		o.metrics.RecordError("outliers")
		return models.OutlierResult{}, fmt.Errorf("detect outliers: %w", err)
	}
	res, err := o.detector.Detect(o.ds, p)
	if err != nil {
		o.metrics.RecordError("outliers")
		return models.OutlierResult{}, fmt.Errorf("detect outliers: %w", err)
	}
	o.metrics.RecordOutlierRun(res.Count)
	o.metrics.RecordLatency("outliers", time.Since(start).Seconds())
	return res, nil
}

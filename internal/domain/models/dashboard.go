package models

import "time"

// Summary holds the headline metrics. Amount statistics skip missing values.
type Summary struct {
	Transactions   int    `json:"transactions"`
	TotalAmount    Number `json:"total_amount"`
	AverageAmount  Number `json:"average_amount"`
	MedianAmount   Number `json:"median_amount"`
	TransactionsFm string `json:"transactions_formatted"`
	TotalFm        string `json:"total_amount_formatted"`
	AverageFm      string `json:"average_amount_formatted"`
	MedianFm       string `json:"median_amount_formatted"`
}

// SeriesPoint is one resampled bucket. Value is null for an empty mean bucket.
type SeriesPoint struct {
	Period time.Time `json:"period"`
	Value  Number    `json:"value"`
}

type TimeSeries struct {
	Frequency string        `json:"frequency"`
	Metric    string        `json:"metric"`
	Title     string        `json:"title"`
	YLabel    string        `json:"y_label"`
	Points    []SeriesPoint `json:"points"`
}

// HistogramBin covers [Lower, Upper); the last bin is closed on both ends.
type HistogramBin struct {
	Lower Number `json:"lower"`
	Upper Number `json:"upper"`
	Count int    `json:"count"`
}

// BoxStats are box-plot statistics with whiskers at 1.5 IQR (25/75 quartiles).
type BoxStats struct {
	Min         Number `json:"min"`
	Q1          Number `json:"q1"`
	Median      Number `json:"median"`
	Q3          Number `json:"q3"`
	Max         Number `json:"max"`
	WhiskerLow  Number `json:"whisker_low"`
	WhiskerHigh Number `json:"whisker_high"`
	Fliers      int    `json:"fliers"`
}

type AmountDistribution struct {
	Count     int            `json:"count"`
	Histogram []HistogramBin `json:"histogram"`
	Box       BoxStats       `json:"box"`
}

type Bar struct {
	Label string `json:"label"`
	Value Number `json:"value"`
}

type CategoryBars struct {
	Column string `json:"column"`
	Agg    string `json:"agg"`
	Sort   string `json:"sort"`
	Title  string `json:"title"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

// Matrix is a labelled 2-D grid used by every heatmap.
type Matrix struct {
	Kind     string     `json:"kind"`
	Title    string     `json:"title"`
	RowLabel string     `json:"row_label"`
	ColLabel string     `json:"col_label"`
	Rows     []string   `json:"rows"`
	Cols     []string   `json:"cols"`
	Values   [][]Number `json:"values"`
}

// Table is a page of raw rows in source column order.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

// ColumnSummary mirrors a describe() row. Text statistics are set for label
// columns, numeric statistics for amount.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Unique *int    `json:"unique,omitempty"`
	Top    *string `json:"top,omitempty"`
	Freq   *int    `json:"freq,omitempty"`
	Mean   *Number `json:"mean,omitempty"`
	Std    *Number `json:"std,omitempty"`
	Min    *Number `json:"min,omitempty"`
	P25    *Number `json:"p25,omitempty"`
	P50    *Number `json:"p50,omitempty"`
	P75    *Number `json:"p75,omitempty"`
	Max    *Number `json:"max,omitempty"`
}

type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

type DataQuality struct {
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Missing    []ColumnCount `json:"missing"`
	Duplicates int           `json:"duplicates"`
}

// OutlierReport is the render-ready view of an OutlierResult.
type OutlierReport struct {
	Q1            Number `json:"q1"`
	Q3            Number `json:"q3"`
	IQR           Number `json:"iqr"`
	Upper         Number `json:"upper"`
	Lower         Number `json:"lower"`
	K             Number `json:"k"`
	FlagLow       bool   `json:"flag_low"`
	ThresholdText string `json:"threshold_text"`
	Count         int    `json:"count"`
	Total         Number `json:"total"`
	TotalFm       string `json:"total_formatted"`
	Preview       Table  `json:"preview"`
}

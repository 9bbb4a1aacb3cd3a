package models

// Requests for dashboard HTTP endpoints.

type TimeSeriesRequest struct {
	Freq   string `query:"freq" json:"freq" default:"M" validate:"oneof=D W M"`
	Metric string `query:"metric" json:"metric" default:"count" validate:"oneof=count sum mean"`
}

type AmountRequest struct {
	Bins int `query:"bins" json:"bins" default:"10" validate:"gte=5,lte=30"`
}

type CategoricalRequest struct {
	Column string `query:"column" json:"column" default:"category" validate:"oneof=category merchant payment_method account_type transaction_type"`
	Agg    string `query:"agg" json:"agg" default:"count" validate:"oneof=count sum mean"`
	TopN   int    `query:"top_n" json:"top_n" default:"20" validate:"gte=5,lte=40"`
	Sort   string `query:"sort" json:"sort" default:"metric" validate:"oneof=metric label"`
}

type HeatmapRequest struct {
	Kind string `param:"kind" json:"kind" validate:"oneof=category-payment category-merchant month-category daily-correlation"`
	TopN int    `query:"top_n" json:"top_n" default:"20" validate:"gte=5,lte=40"`
}

type PreviewRequest struct {
	N int `query:"n" json:"n" default:"5" validate:"gte=1,lte=500"`
}

type FilterRequest struct {
	Column string `query:"column" json:"column" validate:"required"`
	Value  string `query:"value" json:"value"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=5000"`
}

type OutlierRequest struct {
	K       float64 `query:"k" json:"k" default:"1.5" validate:"gte=0.5,lte=3"`
	FlagLow bool    `query:"flag_low" json:"flag_low"`
	Limit   int     `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=5000"`
}

type SessionRequest struct {
	ID string `param:"id" json:"id" validate:"required,uuid"`
}

type ChatMessageRequest struct {
	ID      string `param:"id" json:"-" validate:"required,uuid"`
	Content string `json:"content" validate:"required,max=2000"`
}

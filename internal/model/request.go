package model

import json "github.com/goccy/go-json"

// OverviewRequest asks for portfolio demand and supply over years and
// income scenarios. Companies and Supply are optional; when omitted the
// engine's configured data sources are used. Supply has the layout of the
// supply file and is checked the same way.
type OverviewRequest struct {
	Years     []int             `json:"years"`
	Scenarios []IncomeScenario  `json:"scenarios"`
	Companies []json.RawMessage `json:"companies,omitempty"`
	Supply    json.RawMessage   `json:"supply,omitempty"`
}

type DemandRequest struct {
	Company   string            `json:"company"`
	Year      int               `json:"year"`
	Scenario  IncomeScenario    `json:"scenario"`
	RateLabel string            `json:"rate_label,omitempty"`
	Companies []json.RawMessage `json:"companies,omitempty"`
}

type ValidateRequest struct {
	Companies []json.RawMessage `json:"companies"`
}

// Package model holds the messages exchanged with the renderer.
package model

import (
	"thermal/process"
	"thermal/tour"
)

// Msg is the envelope of every websocket message. Content carries either a
// scalar argument (requests) or a JSON document (responses).
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Request types.
const (
	TypeStart   = "start"
	TypeStop    = "stop"
	TypeTrip    = "trip"
	TypeReset   = "reset"
	TypeFuel    = "fuel"
	TypeLoad    = "load"
	TypeDismiss = "dismiss"
	TypeNext    = "next"
	TypePrev    = "prev"
	TypeStep    = "step"
	TypeHover   = "hover"
	TypeSelect  = "select"
	TypeHistory = "history"
)

// Response types.
const (
	TypeFrame = "frame"
	TypeError = "error"
)

// Sample is one point of the trend charts.
type Sample struct {
	Time           float64 `json:"t"`
	BoilerTemp     float64 `json:"boiler_temp"`
	BoilerPressure float64 `json:"boiler_pressure"`
	SteamFlowRate  float64 `json:"steam_flow_rate"`
	TurbineRPM     float64 `json:"turbine_rpm"`
	GeneratorMW    float64 `json:"generator_mw"`
}

// SampleOf extracts the trended values from a snapshot.
func SampleOf(s process.Snapshot) Sample {
	return Sample{
		Time:           s.SimulationTime,
		BoilerTemp:     s.BoilerTemp,
		BoilerPressure: s.BoilerPressure,
		SteamFlowRate:  s.SteamFlowRate,
		TurbineRPM:     s.TurbineRPM,
		GeneratorMW:    s.GeneratorMW,
	}
}

// Frame is everything the renderer needs to draw one animation frame.
type Frame struct {
	Session  string           `json:"session"`
	Tick     uint64           `json:"tick"`
	Plant    process.Snapshot `json:"plant"`
	View     tour.View        `json:"view"`
	Progress tour.Progress    `json:"progress"`
	Focus    tour.Focus       `json:"focus"`
}

// History is the trend buffer, oldest sample first.
type History struct {
	Session string   `json:"session"`
	Samples []Sample `json:"samples"`
}

// ErrorReply reports a rejected request.
type ErrorReply struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}

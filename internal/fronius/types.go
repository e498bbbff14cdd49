package fronius

// Head is the response header every Solar API v1 document carries.
type Head struct {
	Status    HeadStatus `json:"Status"`
	Timestamp string     `json:"Timestamp"`
}

// HeadStatus reports the inverter-side outcome of a Solar API request.
// Code 0 means success; anything else is an inverter-reported error.
type HeadStatus struct {
	Code        int    `json:"Code"`
	Reason      string `json:"Reason"`
	UserMessage string `json:"UserMessage"`
}

// PowerFlowData is the Body.Data of GetPowerFlowRealtimeData.fcgi.
type PowerFlowData struct {
	Site      PowerFlowSite                `json:"Site"`
	Inverters map[string]PowerFlowInverter `json:"Inverters"`
}

// PowerFlowSite holds the site-level instantaneous power readings, in watts.
//
// Sign conventions (Fronius):
//   - PGrid: positive = import from grid, negative = feed-in.
//   - PAkku: positive = battery discharging, negative = charging.
//   - PLoad: negative = consumption.
type PowerFlowSite struct {
	PPV         *float64 `json:"P_PV"`
	PLoad       *float64 `json:"P_Load"`
	PGrid       *float64 `json:"P_Grid"`
	PAkku       *float64 `json:"P_Akku"`
	RelAutonomy *float64 `json:"rel_Autonomy"`
}

// PowerFlowInverter holds the per-inverter entries of the power-flow document.
// SOC is only present on inverters with an attached battery.
type PowerFlowInverter struct {
	DT  int      `json:"DT"`
	P   *float64 `json:"P"`
	SOC *float64 `json:"SOC"`
}

// MeterData is the Body.Data of GetMeterRealtimeData.cgi for a single device.
// All counters are cumulative watt-hours as tracked by the smart meter.
type MeterData struct {
	EnergySumProduced   *float64 `json:"EnergyReal_WAC_Sum_Produced"`
	EnergySumConsumed   *float64 `json:"EnergyReal_WAC_Sum_Consumed"`
	EnergyMinusAbsolute *float64 `json:"EnergyReal_WAC_Minus_Absolute"`
	EnergyPlusAbsolute  *float64 `json:"EnergyReal_WAC_Plus_Absolute"`
}

// CommonInverterData is the Body.Data of GetInverterRealtimeData.cgi with
// DataCollection=CommonInverterData. The collector fetches it every cycle as
// an inverter liveness probe; none of its values feed the metric schema.
type CommonInverterData struct {
	PAC         *ValueUnit `json:"PAC"`
	DayEnergy   *ValueUnit `json:"DAY_ENERGY"`
	YearEnergy  *ValueUnit `json:"YEAR_ENERGY"`
	TotalEnergy *ValueUnit `json:"TOTAL_ENERGY"`
}

// ValueUnit is the Solar API's value-with-unit wrapper used in the common
// inverter document.
type ValueUnit struct {
	Value *float64 `json:"Value"`
	Unit  string   `json:"Unit"`
}

// Snapshot bundles the three documents fetched in one collector cycle.
// A nil member means that endpoint's fetch exhausted its retries; downstream
// normalization treats the derived metrics as absent.
type Snapshot struct {
	Common    *CommonInverterData
	PowerFlow *PowerFlowData
	Meter     *MeterData
}

// envelope is the generic Solar API response wrapper.
type envelope[T any] struct {
	Head Head `json:"Head"`
	Body struct {
		Data T `json:"Data"`
	} `json:"Body"`
}

package alert

import (
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	pstrings "github.com/mincheuk/road2air-icn-smart-services/internal/platform/strings"
)

const (
	// FlightDelayType is the alert_type of flight delay alerts
	FlightDelayType = "flight_delay_detected"

	unknown = "정보없음"
)

// flightInfoFields are copied, in order, into the flight_info payload
var flightInfoFields = []string{
	"airline", "flightId", "airport", "airportCode",
	"scheduleDateTime", "estimatedDateTime", "remark", "gatenumber",
}

// FlightDelay formats departure board records, e.g.
// "대한항공 KE701편 12:00 출발 → 13:30 변경 나리타(NRT)행 비행기 지연이 감지되었습니다 (12게이트)"
type FlightDelay struct{}

// Format implements Formatter
func (FlightDelay) Format(e Event) Alert {
	r := e.Record
	airline := pstrings.Or(r.Text("airline"), unknown)
	flightID := pstrings.Or(r.Text("flightId"), unknown)
	airport := pstrings.Or(r.Text("airport"), unknown)
	code := r.Text("airportCode")
	sched := record.FormatHHMM(r.Text("scheduleDateTime"))
	est := record.FormatHHMM(r.Text("estimatedDateTime"))
	gate := r.Text("gatenumber")

	var timeInfo string
	switch {
	case sched != "" && est != "":
		timeInfo = sched + " 출발 → " + est + " 변경"
	case sched != "":
		timeInfo = sched + " 출발"
	default:
		timeInfo = "시간 정보 없음"
	}

	dest := airport
	if code != "" {
		dest = airport + "(" + code + ")"
	}

	gateInfo := ""
	if gate != "" {
		gateInfo = " (" + gate + "게이트)"
	}

	msg := airline + " " + flightID + "편 " + timeInfo + " " + dest + "행 비행기 " + e.Keyword + "이 감지되었습니다" + gateInfo

	payload := make(record.Record, 0, len(flightInfoFields))
	for _, f := range flightInfoFields {
		v, ok := r.Get(f)
		if !ok {
			v = nil
		}
		payload = append(payload, record.Pair{Name: f, Value: v})
	}

	return Alert{Type: FlightDelayType, Message: msg, PayloadKey: "flight_info", Payload: payload}
}

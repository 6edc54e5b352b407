package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrLeadNotFound = errors.New("lead not found")

// Terminal statuses for billing purposes. The status field itself is an open
// set: admins may push any label through the update endpoint.
const (
	StatusNew  = "new"
	StatusWon  = "won"
	StatusLost = "lost"
)

// PhotoData is the un-hosted fallback representation of an uploaded photo:
// the original bytes kept inline, base64-encoded.
type PhotoData struct {
	Name string `json:"name"`
	Data string `json:"data"`
	Size int64  `json:"size"`
}

// Lead is the central record. Timestamps are RFC3339 strings where the empty
// string means "absent"; amounts are nil when absent. Form fields the service
// does not know about (contact name, phone, project details, ...) ride along
// in Extra and survive serialization untouched.
type Lead struct {
	ID              int64
	Status          string
	StatusUpdatedAt string
	ClosedAt        string
	Notes           string
	LostReason      string
	NextFollowUpAt  string
	LastContactedAt string
	QuoteAmount     *decimal.Decimal
	JobAmount       *decimal.Decimal
	SubmittedAt     string
	Photos          []string
	PhotoData       []PhotoData
	HasPhotos       bool
	Extra           map[string]any
}

// NewLead builds a lead from raw form fields. The caller assigns the id
// afterwards (it is issued under the store lock). Known fields are lifted out
// of the map and normalized; everything else passes through into Extra.
func NewLead(fields map[string]any, now time.Time) *Lead {
	lead := &Lead{
		Status:          StatusNew,
		StatusUpdatedAt: now.UTC().Format(time.RFC3339),
		Photos:          []string{},
		PhotoData:       []PhotoData{},
		Extra:           make(map[string]any),
	}

	for k, v := range fields {
		switch k {
		case "id", "status", "statusUpdatedAt", "closedAt", "photos", "photoData", "hasPhotos":
			// Derived fields are owned by the service, never by the form.
		case "notes":
			lead.Notes = CoerceString(v)
		case "lostReason":
			lead.LostReason = CoerceString(v)
		case "nextFollowUpAt":
			lead.NextFollowUpAt = CoerceString(v)
		case "lastContactedAt":
			lead.LastContactedAt = CoerceString(v)
		case "quoteAmount":
			lead.QuoteAmount = NormalizeAmount(v)
		case "jobAmount":
			lead.JobAmount = NormalizeAmount(v)
		case "submittedAt":
			lead.SubmittedAt = CoerceString(v)
		default:
			lead.Extra[k] = v
		}
	}

	return lead
}

func IsTerminalStatus(status string) bool {
	return status == StatusWon || status == StatusLost
}

// ApplyStatus moves the lead to a new status and maintains the derived
// timestamps: statusUpdatedAt always refreshes; closedAt is set once when the
// lead first turns terminal and cleared again when it reopens. It records
// "currently closed", not "was ever closed".
func (l *Lead) ApplyStatus(status string, now time.Time) {
	l.Status = status
	l.StatusUpdatedAt = now.UTC().Format(time.RFC3339)

	if IsTerminalStatus(status) {
		if l.ClosedAt == "" {
			l.ClosedAt = now.UTC().Format(time.RFC3339)
		}
	} else {
		l.ClosedAt = ""
	}
}

// AppendPhotos merges an uploaded batch into the lead. Append-only: repeated
// batches duplicate entries rather than deduplicate.
func (l *Lead) AppendPhotos(urls []string, data []PhotoData) {
	l.Photos = append(l.Photos, urls...)
	l.PhotoData = append(l.PhotoData, data...)
	if len(l.Photos) > 0 || len(l.PhotoData) > 0 {
		l.HasPhotos = true
	}
}

// CoerceString flattens whatever the form sent into a string. nil becomes "".
func CoerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeAmount turns a caller-supplied amount into a decimal, mapping the
// empty string (and anything unparseable) to absent.
func NormalizeAmount(v any) *decimal.Decimal {
	switch a := v.(type) {
	case nil:
		return nil
	case float64:
		d := decimal.NewFromFloat(a)
		return &d
	case json.Number:
		d, err := decimal.NewFromString(a.String())
		if err != nil {
			return nil
		}
		return &d
	case string:
		if a == "" {
			return nil
		}
		d, err := decimal.NewFromString(a)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

// MarshalJSON flattens the lead into a single JSON object: pass-through Extra
// fields first, then the owned fields on top so they always win.
func (l Lead) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Extra)+14)
	for k, v := range l.Extra {
		out[k] = v
	}

	out["id"] = l.ID
	out["status"] = l.Status
	out["statusUpdatedAt"] = l.StatusUpdatedAt
	out["closedAt"] = l.ClosedAt
	out["notes"] = l.Notes
	out["lostReason"] = l.LostReason
	out["nextFollowUpAt"] = l.NextFollowUpAt
	out["lastContactedAt"] = l.LastContactedAt
	if l.SubmittedAt != "" {
		out["submittedAt"] = l.SubmittedAt
	}
	if l.QuoteAmount != nil {
		out["quoteAmount"] = l.QuoteAmount
	}
	if l.JobAmount != nil {
		out["jobAmount"] = l.JobAmount
	}
	if l.Photos == nil {
		out["photos"] = []string{}
	} else {
		out["photos"] = l.Photos
	}
	if l.PhotoData == nil {
		out["photoData"] = []PhotoData{}
	} else {
		out["photoData"] = l.PhotoData
	}
	out["hasPhotos"] = l.HasPhotos

	return json.Marshal(out)
}

func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = Lead{Extra: make(map[string]any)}

	take := func(key string, dst any) error {
		msg, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		return json.Unmarshal(msg, dst)
	}

	if err := take("id", &l.ID); err != nil {
		return fmt.Errorf("lead id: %w", err)
	}
	if err := take("status", &l.Status); err != nil {
		return err
	}
	if err := take("statusUpdatedAt", &l.StatusUpdatedAt); err != nil {
		return err
	}
	if err := take("closedAt", &l.ClosedAt); err != nil {
		return err
	}
	if err := take("notes", &l.Notes); err != nil {
		return err
	}
	if err := take("lostReason", &l.LostReason); err != nil {
		return err
	}
	if err := take("nextFollowUpAt", &l.NextFollowUpAt); err != nil {
		return err
	}
	if err := take("lastContactedAt", &l.LastContactedAt); err != nil {
		return err
	}
	if err := take("submittedAt", &l.SubmittedAt); err != nil {
		return err
	}
	if err := take("quoteAmount", &l.QuoteAmount); err != nil {
		return err
	}
	if err := take("jobAmount", &l.JobAmount); err != nil {
		return err
	}
	if err := take("photos", &l.Photos); err != nil {
		return err
	}
	if err := take("photoData", &l.PhotoData); err != nil {
		return err
	}
	if err := take("hasPhotos", &l.HasPhotos); err != nil {
		return err
	}

	for k, msg := range raw {
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		l.Extra[k] = v
	}

	if l.Photos == nil {
		l.Photos = []string{}
	}
	if l.PhotoData == nil {
		l.PhotoData = []PhotoData{}
	}

	return nil
}

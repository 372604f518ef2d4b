package prescription

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditRequest_UnsetForms(t *testing.T) {
	bodies := []string{
		`{"user_id": 7}`,
		`{"user_id": 7, "dosage": null, "formula": null, "next_refill": null}`,
		`{"user_id": 7, "dosage": "", "formula": "", "timeline": "  ", "period": "", "prescription_date": "", "last_refill": "", "next_refill": ""}`,
	}
	for _, body := range bodies {
		var req EditRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, Ref(7), req.UserID)
		assert.True(t, req.Empty(), body)
	}
}

func TestEditRequest_Values(t *testing.T) {
	body := `{
		"user_id": "7",
		"dosage": "250",
		"formula": "tablet",
		"timeline": "twice daily",
		"period": "30 days",
		"prescription_date": "2026-09-01",
		"last_refill": "2026-09-15T08:00:00Z",
		"next_refill": "2026-10-15T08:00:00"
	}`
	var req EditRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, Ref(7), req.UserID)
	assert.Equal(t, Some(250.0), req.Dosage)
	assert.Equal(t, Some("tablet"), req.Formula)
	assert.Equal(t, Some("twice daily"), req.Timeline)
	assert.Equal(t, Some("30 days"), req.Period)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), req.PrescriptionDate.Value)
	assert.True(t, req.LastRefill.Value.Equal(time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)))
	assert.True(t, req.NextRefill.Set)
	assert.False(t, req.Empty())
}

func TestOptionalFloat(t *testing.T) {
	tests := []struct {
		in   string
		want Optional[float64]
	}{
		{`250`, Some(250.0)},
		{`12.5`, Some(12.5)},
		{`"0.25"`, Some(0.25)},
		{`" 40 "`, Some(40.0)},
		{`0`, Some(0.0)},
		{`null`, Optional[float64]{}},
		{`""`, Optional[float64]{}},
	}
	for _, tt := range tests {
		var o Optional[float64]
		require.NoError(t, json.Unmarshal([]byte(tt.in), &o), tt.in)
		assert.Equal(t, tt.want, o, tt.in)
	}
}

func TestOptionalFloat_Invalid(t *testing.T) {
	for _, in := range []string{`"abc"`, `"12mg"`, `true`, `{}`, `"NaN"`, `"nan"`, `"Infinity"`, `"-Inf"`, `"+inf"`, `"1e400"`} {
		var o Optional[float64]
		assert.Error(t, json.Unmarshal([]byte(in), &o), in)
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var o Optional[string]
	assert.Error(t, json.Unmarshal([]byte(`42`), &o))
}

func TestOptionalDate_Invalid(t *testing.T) {
	for _, in := range []string{`"next tuesday"`, `"2026-13-01"`, `20260901`} {
		var o Optional[time.Time]
		assert.Error(t, json.Unmarshal([]byte(in), &o), in)
	}
}

func TestOptional_Merge(t *testing.T) {
	current := "capsule"

	assert.Same(t, &current, Optional[string]{}.Merge(&current))
	assert.Nil(t, Optional[string]{}.Merge(nil))

	merged := Some("syrup").Merge(&current)
	require.NotNil(t, merged)
	assert.Equal(t, "syrup", *merged)
	assert.Equal(t, "capsule", current, "merge never writes through the old pointer")

	assert.Equal(t, 3.0, Optional[float64]{}.Or(3))
	assert.Equal(t, 5.0, Some(5.0).Or(3))
	assert.Nil(t, Optional[int]{}.Ptr())
}

func TestOptional_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[string]  `json:"a"`
		B Optional[float64] `json:"b"`
	}{A: Some("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(out))
}

func TestRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{`7`, 7},
		{`"7"`, 7},
		{`" 12 "`, 12},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		var r Ref
		require.NoError(t, json.Unmarshal([]byte(tt.in), &r), tt.in)
		assert.Equal(t, tt.want, r, tt.in)
	}

	for _, in := range []string{`-1`, `"abc"`, `1.5`, `true`} {
		var r Ref
		assert.Error(t, json.Unmarshal([]byte(in), &r), in)
	}
}

func TestCreateRequest_Validate(t *testing.T) {
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"patient_id": 7, "doctor_id": "3", "med_id": 12, "pharmacy_id": null}`), &req))

	err := req.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"pharmacy_id"}, ve.Fields)
	assert.Contains(t, err.Error(), "Missing required fields")
}

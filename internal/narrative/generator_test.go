package narrative

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spec-kit/triage-service/internal/domain"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, whose view worker starts in init and never exits.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func TestParseExplanation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.Explanation
		wantErr bool
	}{
		{
			name: "bare json",
			raw:  `{"evidence":"mentions refund","recommendation":"issue refund"}`,
			want: domain.Explanation{Evidence: "mentions refund", Recommendation: "issue refund"},
		},
		{
			name: "fenced json with extra keys",
			raw:  "```json\n{\"evidence\":\"e\",\"recommendation\":\"r\",\"confidence\":0.9}\n```",
			want: domain.Explanation{Evidence: "e", Recommendation: "r"},
		},
		{
			name: "whitespace wrapped",
			raw:  "  \n{\"evidence\":\"\",\"recommendation\":\"r\"}\n ",
			want: domain.Explanation{Evidence: "", Recommendation: "r"},
		},
		{name: "prose", raw: "Sure! The customer wants a refund.", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "missing recommendation", raw: `{"evidence":"e"}`, wantErr: true},
		{name: "non-string field", raw: `{"evidence":1,"recommendation":"r"}`, wantErr: true},
		{name: "array", raw: `[{"evidence":"e","recommendation":"r"}]`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "trailing garbage", raw: `{"evidence":"e","recommendation":"r"} thanks`, wantErr: true},
		{name: "fence without newline", raw: "```", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExplanation(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedResponse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessages(t *testing.T) {
	msgs := Messages("my parcel is late", "late_delivery")
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleSystem, msgs[0].Role)
	assert.Equal(t, Instruction, msgs[0].Text)
	assert.Equal(t, domain.RoleUser, msgs[1].Role)
	assert.Equal(t, "TICKET:\nmy parcel is late\n\nISSUE_TYPE: late_delivery", msgs[1].Text)
}

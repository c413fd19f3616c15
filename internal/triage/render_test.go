package triage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/rules"
)

var leftoverPlaceholder = regexp.MustCompile(`\{\{[^}]*\}\}`)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: "Hi, my order ORD1002 is late", want: "ORD1002", wantOK: true},
		{text: "order ord1234 never came", want: "ORD1234", wantOK: true},
		{text: "mixed Ord0007!", want: "ORD0007", wantOK: true},
		{text: "first ORD1111 then ORD2222", want: "ORD1111", wantOK: true},
		{text: "embedded xORD12345y", want: "ORD1234", wantOK: true},
		{text: "ORD12 is too short", wantOK: false},
		{text: "no identifier here", wantOK: false},
		{text: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractOrderID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_KnownOrder(t *testing.T) {
	order := &domain.Order{OrderID: "ORD1002", CustomerName: "David Lee"}
	id := "ORD1002"

	out := Render("Hi {{customer_name}}, order {{order_id}} ({{order_id}}) is on its way.", order, &id)
	assert.Equal(t, "Hi David Lee, order ORD1002 (ORD1002) is on its way.", out)
	assert.False(t, leftoverPlaceholder.MatchString(out))
}

func TestRender_AbsentOrder(t *testing.T) {
	id := "ORD9999"
	assert.Equal(t, "Hi Customer, we are reviewing order N/A.", Render(rules.FallbackTemplate, nil, &id))
	assert.Equal(t, "Hi Customer, we are reviewing order N/A.", Render(rules.FallbackTemplate, nil, nil))
}

func TestRender_OrderWithoutName(t *testing.T) {
	order := &domain.Order{OrderID: "ORD1002"}
	assert.Equal(t, "Hi Customer, we are reviewing order ORD1002.", Render(rules.FallbackTemplate, order, nil))
}

func TestRenderFields_LeavesOtherTextAlone(t *testing.T) {
	assert.Equal(t, "Dear Ana, {{unknown}} stays; N/A", RenderFields("Dear {{customer_name}}, {{unknown}} stays; {{order_id}}", "Ana", ""))
}

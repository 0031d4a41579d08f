package pipeline

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/finsight-ai/finsight/internal/domain"
)

var chartFenceRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// ExtractCharts pulls fenced chart JSON blocks out of a model answer.
// Every block that parses as JSON is stripped from the returned text;
// only blocks with a known chart type become charts. A block that does
// not parse stays in the text untouched, and never fails the pipeline.
func ExtractCharts(answer string) (string, []domain.Chart) {
	matches := chartFenceRe.FindAllStringSubmatchIndex(answer, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(answer), nil
	}

	var charts []domain.Chart
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		blockStart, blockEnd, jsonStart, jsonEnd := m[0], m[1], m[2], m[3]
		payload := []byte(answer[jsonStart:jsonEnd])

		var raw map[string]any
		if err := json.Unmarshal(payload, &raw); err != nil {
			continue
		}
		sb.WriteString(answer[last:blockStart])
		last = blockEnd

		var chart domain.Chart
		if err := json.Unmarshal(payload, &chart); err != nil || !chart.Type.Valid() {
			continue
		}
		charts = append(charts, chart)
	}
	sb.WriteString(answer[last:])

	return strings.TrimSpace(sb.String()), charts
}

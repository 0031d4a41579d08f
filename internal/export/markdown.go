package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/finsight-ai/finsight/internal/domain"
)

type markdownExporter struct{}

func (markdownExporter) Extension() string   { return "md" }
func (markdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }

func (markdownExporter) Export(sess *domain.Session, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# " + sess.Title + "\n\n")
	fmt.Fprintf(&sb, "- Session: %s\n", sess.ID)
	fmt.Fprintf(&sb, "- Created: %s\n\n", sess.CreatedAt.Format(time.RFC3339))

	if len(sess.InitialCharts) > 0 {
		sb.WriteString("## Summary Charts\n\n")
		for _, chart := range sess.InitialCharts {
			writeChartBlock(&sb, chart)
		}
	}

	if len(sess.Messages) > 0 {
		sb.WriteString("## Transcript\n\n")
		for _, msg := range sess.Messages {
			writeMessage(&sb, msg)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMessage(sb *strings.Builder, msg domain.Message) {
	switch msg.Role {
	case domain.RoleUser:
		sb.WriteString("### User\n\n")
	case domain.RoleAssistant:
		sb.WriteString("### Assistant\n\n")
	default:
		sb.WriteString("### " + msg.Role + "\n\n")
	}
	sb.WriteString(msg.Content + "\n\n")

	for _, chart := range msg.ChartData {
		writeChartBlock(sb, chart)
	}

	if len(msg.Sources) > 0 {
		sb.WriteString("#### Sources\n\n")
		for _, src := range msg.Sources {
			sb.WriteString(blockquote(src) + "\n\n")
		}
	}
}

func writeChartBlock(sb *strings.Builder, chart domain.Chart) {
	data, err := json.MarshalIndent(chart, "", "  ")
	if err != nil {
		return
	}
	sb.WriteString("```json\n")
	sb.Write(data)
	sb.WriteString("\n```\n\n")
}

func blockquote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

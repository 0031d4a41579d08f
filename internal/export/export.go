package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/finsight-ai/finsight/internal/domain"
)

// Exporter renders a session transcript in one output format.
type Exporter interface {
	Export(sess *domain.Session, w io.Writer) error
	Extension() string
	ContentType() string
}

// NewExporter picks the exporter for a format name.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return jsonExporter{}, nil
	case "yaml", "yml":
		return yamlExporter{}, nil
	case "markdown", "md":
		return markdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

type jsonExporter struct{}

func (jsonExporter) Extension() string   { return "json" }
func (jsonExporter) ContentType() string { return "application/json" }

func (jsonExporter) Export(sess *domain.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(sess)
}

type yamlExporter struct{}

func (yamlExporter) Extension() string   { return "yaml" }
func (yamlExporter) ContentType() string { return "application/yaml" }

func (yamlExporter) Export(sess *domain.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(sess)
}

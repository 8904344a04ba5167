package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/digest/internal/types"
	"gopkg.in/yaml.v3"
)

type encodeFunction func(items []interface{}) (string, error)

// structuredRenderer collects results and encodes them together on Flush.
// A single result is encoded as an object, several as a list.
type structuredRenderer struct {
	stdout         io.Writer
	encode         encodeFunction
	includeSummary bool
	items          []interface{}
}

func (renderer *structuredRenderer) RenderDigest(result types.DigestOutput) error {
	if !renderer.includeSummary {
		result.Summary = nil
	}
	renderer.items = append(renderer.items, result)
	return nil
}

func (renderer *structuredRenderer) RenderTree(result types.TreeOutput) error {
	if !renderer.includeSummary {
		result.Summary = nil
	}
	renderer.items = append(renderer.items, result)
	return nil
}

func (renderer *structuredRenderer) RenderClassification(result types.ClassificationOutput) error {
	renderer.items = append(renderer.items, result)
	return nil
}

func (renderer *structuredRenderer) Flush() error {
	encoded, encodeError := renderer.encode(renderer.items)
	if encodeError != nil {
		return encodeError
	}
	_, writeError := fmt.Fprintln(renderer.stdout, encoded)
	return writeError
}

func encodeJSON(items []interface{}) (string, error) {
	if len(items) == 0 {
		return emptyStructuredJSONOutput, nil
	}
	var value interface{} = items
	if len(items) == 1 {
		value = items[0]
	}
	encoded, jsonEncodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

func encodeXML(items []interface{}) (string, error) {
	var value interface{}
	if len(items) == 1 {
		value = items[0]
	} else {
		value = struct {
			XMLName xml.Name      `xml:"results"`
			Items   []interface{} `xml:"item"`
		}{Items: items}
	}
	encoded, xmlMarshalError := xml.MarshalIndent(value, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xml.Header + string(encoded), nil
}

func encodeYAML(items []interface{}) (string, error) {
	var value interface{} = items
	if len(items) == 1 {
		value = items[0]
	}
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return "", encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return string(bytes.TrimRight(buffer.Bytes(), "\n")), nil
}

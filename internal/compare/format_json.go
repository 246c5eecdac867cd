package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON.
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// FormatPlans generates JSON output for a plan comparison.
func (jf *JSONFormatter) FormatPlans(set *PlanComparisonSet) (string, error) {
	return jf.marshal(set)
}

// FormatScenarios generates JSON output for a scenario comparison.
func (jf *JSONFormatter) FormatScenarios(set *ScenarioComparisonSet) (string, error) {
	return jf.marshal(set)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

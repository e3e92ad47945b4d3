package catalog

// SeverityDisplay is what a shell needs to render a warning of a given severity.
type SeverityDisplay struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// Display maps a severity to its rendering metadata. Unknown severities get a
// neutral gray style with no label.
func Display(s Severity) SeverityDisplay {
	switch s {
	case SeverityHigh:
		return SeverityDisplay{Color: "red", Icon: "AlertTriangle", Label: "High risk"}
	case SeverityMedium:
		return SeverityDisplay{Color: "yellow", Icon: "AlertCircle", Label: "Medium risk"}
	case SeverityLow:
		return SeverityDisplay{Color: "green", Icon: "Info", Label: "Low risk"}
	default:
		return SeverityDisplay{Color: "gray", Icon: "Info", Label: ""}
	}
}

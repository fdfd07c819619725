package flow

// TemplateFilename is the suggested file name for the downloadable template.
const TemplateFilename = "mermaid_flow_template.csv"

// Sample returns a small project flow exercising each connector style. It is
// the default dataset when no input is given and the content of the
// downloadable template.
func Sample() []Edge {
	return []Edge{
		{
			FromID: "A", FromLabel: "Project Start",
			ToID: "B", ToLabel: "Data Collection",
			Connector: "---",
			Tooltip:   "Kickoff notes",
			URL:       "#",
		},
		{
			FromID: "A", FromLabel: "Project Start",
			ToID: "C", ToLabel: "Analysis",
			Connector: "-- some text -->",
			Tooltip:   "Define requirements",
			URL:       "https://example.com/data",
			Notes:     "Note B",
		},
		{
			FromID: "C", FromLabel: "Analysis",
			ToID: "D", ToLabel: "Review",
			Connector: "-.->",
			Tooltip:   "Check results",
			URL:       "https://example.com/analysis",
			Notes:     "Note C",
		},
		{
			FromID: "D", FromLabel: "Review",
			ToID: "E", ToLabel: "Final Report",
			Connector: "<-->",
			Tooltip:   "Final sign-off",
			URL:       "https://example.com/report",
			Notes:     "Note D",
		},
	}
}

package llm

// Tool names the coach agent dispatches on.
const (
	ToolGetYesterdaysResults = "get_yesterdays_results"
	ToolAppendEntry          = "append_growth_coach_entry"
	ToolSearchAgent          = "google_search_agent"
	ToolGetTime              = "get_time"
)

// Parameter names of append_growth_coach_entry, in column order.
const (
	ParamTodayDate           = "Today_Date"
	ParamYesterdayReflection = "Yesterday_Hard_Task_Reflection"
	ParamSlobbyReflection    = "Slobby_Reflection"
	ParamTodayHardTask       = "Today_Hard_Task"
)

var CoachTools = []Tool{
	{
		Name:        ToolGetYesterdaysResults,
		Description: "Retrieve the pupil's entry from yesterday: a mapping of column heading to value. Returns an empty object if there is no entry for yesterday.",
		Parameters:  obj(nil),
	},
	{
		Name:        ToolAppendEntry,
		Description: "Record today's coaching notes as a new row in the growth coach spreadsheet. Call once, at the end of the conversation.",
		Parameters: objReq(map[string]any{
			ParamTodayDate:           prop("string", "Today's date in YYYY-MM-DD format, e.g. 2025-11-27"),
			ParamYesterdayReflection: prop("string", "How the pupil did on yesterday's hard task and what it says about their growth mindset progress"),
			ParamSlobbyReflection:    prop("string", "What the pupil is really challenged with in their struggles with Slobby"),
			ParamTodayHardTask:       prop("string", "The hard task the pupil plans to complete today"),
		}, ParamTodayDate, ParamYesterdayReflection, ParamSlobbyReflection, ParamTodayHardTask),
	},
	{
		Name:        ToolGetTime,
		Description: "Get the current local date, time, and weekday.",
		Parameters:  obj(nil),
	},
}

// SearchAgentTool delegates a question to the web search sub-agent.
var SearchAgentTool = Tool{
	Name:        ToolSearchAgent,
	Description: "A search agent that uses Google Search to find recent information: news stories, quotes, current events. Returns an answer with source links.",
	Parameters: objReq(map[string]any{
		"request": prop("string", "What to search for, phrased as a question or instruction"),
	}, "request"),
}

// Helper functions for building JSON Schema objects.

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}

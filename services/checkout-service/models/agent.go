package models

// AgentParameter is one parameter of a Bedrock agent action-group call.
type AgentParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type AgentInfo struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Alias   string `json:"alias"`
	Version string `json:"version"`
}

// AgentEvent is the action-group invocation event sent by a Bedrock agent.
type AgentEvent struct {
	MessageVersion          string            `json:"messageVersion"`
	Agent                   AgentInfo         `json:"agent"`
	SessionID               string            `json:"sessionId"`
	ActionGroup             string            `json:"actionGroup"`
	APIPath                 string            `json:"apiPath"`
	HTTPMethod              string            `json:"httpMethod"`
	Parameters              []AgentParameter  `json:"parameters"`
	InputText               string            `json:"inputText"`
	SessionAttributes       map[string]string `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes"`
}

// Param returns the value of the named parameter.
func (e AgentEvent) Param(name string) (string, bool) {
	for _, p := range e.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

type AgentResponseBody struct {
	Body string `json:"body"`
}

type AgentActionResponse struct {
	ActionGroup    string                       `json:"actionGroup"`
	APIPath        string                       `json:"apiPath"`
	HTTPMethod     string                       `json:"httpMethod"`
	HTTPStatusCode int                          `json:"httpStatusCode"`
	ResponseBody   map[string]AgentResponseBody `json:"responseBody"`
}

// AgentResponse is the envelope a Bedrock agent expects back.
type AgentResponse struct {
	MessageVersion          string              `json:"messageVersion"`
	Response                AgentActionResponse `json:"response"`
	SessionAttributes       map[string]string   `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string   `json:"promptSessionAttributes"`
}

// NewAgentResponse builds the envelope for event with a JSON body.
func NewAgentResponse(event AgentEvent, status int, body string) AgentResponse {
	version := event.MessageVersion
	if version == "" {
		version = "1.0"
	}
	return AgentResponse{
		MessageVersion: version,
		Response: AgentActionResponse{
			ActionGroup:    event.ActionGroup,
			APIPath:        event.APIPath,
			HTTPMethod:     event.HTTPMethod,
			HTTPStatusCode: status,
			ResponseBody: map[string]AgentResponseBody{
				"application/json": {Body: body},
			},
		},
		SessionAttributes:       event.SessionAttributes,
		PromptSessionAttributes: event.PromptSessionAttributes,
	}
}

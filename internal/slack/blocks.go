package slack

// Text is a Block Kit text object (mrkdwn or plain_text)
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Button is a Block Kit button element
type Button struct {
	Type     string `json:"type"`
	Text     Text   `json:"text"`
	ActionID string `json:"action_id"`
}

// Block is a Block Kit layout block. The Type discriminator decides which
// of the optional fields are populated; the JSON shape matches Slack's
// block schema and must round-trip through it unchanged.
type Block struct {
	Type     string   `json:"type"`
	Text     *Text    `json:"text,omitempty"`
	Fields   []Text   `json:"fields,omitempty"`
	Elements []Button `json:"elements,omitempty"`
}

// Mrkdwn builds a mrkdwn text object
func Mrkdwn(text string) Text {
	return Text{Type: "mrkdwn", Text: text}
}

// Section builds a section block with a single mrkdwn text
func Section(text string) Block {
	t := Mrkdwn(text)
	return Block{Type: "section", Text: &t}
}

// SectionFields builds a section block with mrkdwn fields
func SectionFields(fields []Text) Block {
	return Block{Type: "section", Fields: fields}
}

// Divider builds a divider block
func Divider() Block {
	return Block{Type: "divider"}
}

// NoData builds the placeholder block emitted for empty categories
func NoData() Block {
	return Section("_No data available_")
}

// SaveButton builds an actions block holding a single save button
func SaveButton(actionID string) Block {
	return Block{
		Type: "actions",
		Elements: []Button{
			{
				Type:     "button",
				Text:     Text{Type: "plain_text", Text: "Save"},
				ActionID: actionID,
			},
		},
	}
}

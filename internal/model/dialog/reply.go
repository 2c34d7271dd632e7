package dialog

// Reply is one outbound prompt together with the labels valid as next input.
type Reply struct {
	Text           string     `json:"text"`
	Keyboard       [][]string `json:"keyboard,omitempty"`
	Placeholder    string     `json:"placeholder,omitempty"`
	RemoveKeyboard bool       `json:"removeKeyboard,omitempty"`
	State          State      `json:"state"`
	Ended          bool       `json:"ended"`
}

// Labels flattens the keyboard rows.
func (r Reply) Labels() []string {
	var labels []string
	for _, row := range r.Keyboard {
		labels = append(labels, row...)
	}
	return labels
}

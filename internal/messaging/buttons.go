package messaging

import (
	"fmt"
	"strings"
)

// buttonFooter tells the user how to answer a numbered list.
const buttonFooter = "Rispondi con il numero della tua scelta"

// EncodeButtons renders choice buttons into plain text, since the WhatsApp
// sandbox API has no interactive buttons. Each label becomes a numbered
// line and a footer explains how to answer. Without buttons the body
// passes through untouched.
func EncodeButtons(body string, buttons []string) string {
	if len(buttons) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString(body)
	for i, label := range buttons {
		fmt.Fprintf(&b, "\n%d. %s", i+1, label)
	}
	b.WriteString("\n\n")
	b.WriteString(buttonFooter)
	return b.String()
}

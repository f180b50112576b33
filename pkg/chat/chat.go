// Package chat builds the plain-text strings nethr's system-chat packet
// carries. Protocol revision 774's system_chat (0x77) payload is a raw NBT
// string tag (spec §6), not a JSON chat-component tree, so unlike an older
// protocol's chat.Message this renders directly to the classic
// section-sign ("§") formatting codes a 1.21.x client still interprets in
// plain chat text.
package chat

import (
	"fmt"
	"strings"
)

// code maps color names to the vanilla section-sign color code.
var code = map[string]byte{
	"black":      '0',
	"dark_blue":  '1',
	"dark_green": '2',
	"dark_aqua":  '3',
	"dark_red":   '4',
	"dark_purple": '5',
	"gold":       '6',
	"gray":       '7',
	"dark_gray":  '8',
	"blue":       '9',
	"green":      'a',
	"aqua":       'b',
	"red":        'c',
	"light_purple": 'd',
	"yellow":     'e',
	"white":      'f',
}

// Message is plain system-chat text with an optional leading color.
type Message struct {
	Text  string
	Color string
	Bold  bool
}

// String renders m to the literal bytes the NBT string tag carries.
func (m Message) String() string {
	var b strings.Builder
	if c, ok := code[m.Color]; ok {
		b.WriteByte('§')
		b.WriteByte(c)
	}
	if m.Bold {
		b.WriteString("§l")
	}
	b.WriteString(m.Text)
	return b.String()
}

// Text creates a plain, uncolored message.
func Text(text string) Message { return Message{Text: text} }

// Colored creates a colored message — color is a vanilla color name
// ("red", "gray", "gold", ...); unrecognized names render uncolored.
func Colored(text, color string) Message { return Message{Text: text, Color: color} }

// Joinf builds a message from a format string and plain string args —
// nethr has no JSON component tree to nest translatable arguments into,
// so this just defers to fmt-style formatting of the rendered text.
func Joinf(format string, args ...string) Message {
	any := make([]any, len(args))
	for i, a := range args {
		any[i] = a
	}
	return Message{Text: fmt.Sprintf(format, any...)}
}

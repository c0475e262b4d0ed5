package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/exit.txt
	exitRaw string

	//go:embed template/farewell.txt
	farewellRaw string

	//go:embed template/info.txt
	infoRaw string

	//go:embed template/screener.txt
	screenerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Exit     string
	Farewell string
	Info     string
	Screener string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Exit:     strings.TrimSpace(exitRaw),
		Farewell: strings.TrimSpace(farewellRaw),
		Info:     strings.TrimSpace(infoRaw),
		Screener: strings.TrimSpace(screenerRaw),
	}
}

// ABOUTME: Context-aware farewell lines for the end of a session
// ABOUTME: Picks by session errors, mode switches, persona, length, and time
package engine

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

var timeFarewells = map[string][]string{
	"late_night": {
		"Go get some sleep. I'll be here when you need me.",
		"It's late. Rest up, conversations can wait.",
		"Burning the midnight oil? Get some rest.",
		"Late night session, huh? Sleep well.",
	},
	"early_morning": {
		"Early start? Have a good one.",
		"Morning. Go get 'em.",
		"Rise and shine. Catch you later.",
	},
	"morning": {
		"Have a productive morning.",
		"Enjoy your day ahead.",
		"See you around.",
	},
	"afternoon": {
		"Later. Take care.",
		"Catch you later.",
		"See you soon.",
	},
	"evening": {
		"Have a good evening.",
		"Enjoy the rest of your night.",
		"Later.",
	},
	"night": {
		"Good night. See you tomorrow.",
		"Rest up. Catch you later.",
		"Night. Sleep well.",
	},
}

var sessionFarewells = map[string][]string{
	"very_short": {
		"That was quick. See you next time.",
		"Brief visit. Later.",
		"Catch you later.",
	},
	"short": {
		"Good chat. See you around.",
		"Later. Take care.",
		"See you next time.",
	},
	"medium": {
		"Thanks for the conversation. Later.",
		"Good talking with you. See you soon.",
		"That was a solid chat. Catch you later.",
	},
	"long": {
		"We covered some ground today. See you next time.",
		"That was a good session. Later.",
		"Productive chat. Catch you later.",
	},
	"marathon": {
		"Quite the session we had. Go stretch your legs.",
		"Long conversation. Hope it helped. See you soon.",
		"Marathon chat completed. Rest up.",
	},
}

var personaFarewells = map[string][]string{
	"pacificia": {
		"Until next time, friend.",
		"Take care of yourself. I'll be here when you need me.",
		"Later, space cowboy.",
	},
	"sage": {
		"Keep learning. See you next time.",
		"Remember: progress over perfection. Later.",
		"Good work today. Catch you later.",
	},
	"void": {
		"Reality calls. Later.",
		"Back to the noise. See you in the void.",
		"Stay sharp out there.",
	},
	"rebel": {
		"Go cause some trouble. Responsibly.",
		"Until the next hack. Stay safe.",
		"Peace out. Don't get caught.",
	},
}

var wittyFarewells = []string{
	"Don't do anything I wouldn't do. Actually, never mind.",
	"Remember to hydrate. Seriously.",
	"Off you go. The world awaits. Or whatever.",
	"Later. Try not to break anything important.",
	"See you later, alligator. (Sorry, had to.)",
	"Farewell, human. May your code compile on the first try.",
}

var modeSwitchFarewells = []string{
	"Pacify to Defy and back again. Quite the journey. Later.",
	"You switched modes {count} times. Indecisive or thorough? Either way, see you.",
	"Mode-hopping session complete. Catch you next time.",
}

var errorFarewells = []string{
	"Sorry about the hiccups earlier. Hopefully next session is smoother.",
	"Despite the technical difficulties, glad we got through it. Later.",
	"Rough start, but we made it work. See you next time.",
}

// Farewell composes a parting line shaped by the session that just
// ended.
func (e *Engine) Farewell() string {
	return farewellMessage(farewellContext{
		persona:      e.machine.State().Persona,
		exchanges:    e.exchanges,
		modeSwitches: e.modeSwitches,
		hadErrors:    e.hadErrors,
		now:          time.Now(),
	}, rand.Float64, rand.Intn)
}

type farewellContext struct {
	persona      string
	exchanges    int
	modeSwitches int
	hadErrors    bool
	now          time.Time
}

func farewellMessage(fc farewellContext, roll func() float64, pick func(int) int) string {
	choose := func(list []string) string { return list[pick(len(list))] }

	if fc.hadErrors && roll() < 0.3 {
		return choose(errorFarewells)
	}
	if fc.modeSwitches >= 3 && roll() < 0.4 {
		msg := choose(modeSwitchFarewells)
		return strings.ReplaceAll(msg, "{count}", strconv.Itoa(fc.modeSwitches))
	}
	if roll() < 0.05 {
		return choose(wittyFarewells)
	}
	if list, ok := personaFarewells[fc.persona]; ok && roll() < 0.10 {
		return choose(list)
	}
	if fc.exchanges > 0 && roll() < 0.30 {
		return choose(sessionFarewells[sessionCategory(fc.exchanges)])
	}
	return choose(timeFarewells[farewellPeriod(fc.now)])
}

func farewellPeriod(t time.Time) string {
	switch h := t.Hour(); {
	case h < 4:
		return "late_night"
	case h < 7:
		return "early_morning"
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	case h < 21:
		return "evening"
	default:
		return "night"
	}
}

func sessionCategory(exchanges int) string {
	switch {
	case exchanges < 2:
		return "very_short"
	case exchanges < 6:
		return "short"
	case exchanges < 16:
		return "medium"
	case exchanges < 31:
		return "long"
	default:
		return "marathon"
	}
}

package agent

import (
	"fmt"
	"sort"
	"strings"
)

// Persona is one side of a two-bot interview. The fields feed the prompt
// template variables of the same names.
type Persona struct {
	Name        string
	Description string
	Behavior    string
}

// PresetPair bundles the initiator persona (drives the conversation) with
// the responder persona (reacts).
type PresetPair struct {
	Key       string
	Initiator Persona
	Responder Persona
}

const DefaultPreset = "reporter-politician"

var presets = map[string]PresetPair{
	"reporter-politician": {
		Key: "reporter-politician",
		Initiator: Persona{
			Name:        "Reporter",
			Description: "a serious investigative journalist conducting a live television interview with high ethical standards and a reputation for tough, fair questioning",
			Behavior:    "You press for specifics, follow up on evasions, and cite facts. You are respectful but relentless.",
		},
		Responder: Persona{
			Name:        "Politician",
			Description: "a seasoned but ethically questionable politician being interviewed on live TV",
			Behavior:    "You deflect hard questions, pivot to talking points, use folksy anecdotes, make vague promises, and occasionally attack the media. You never directly answer uncomfortable questions.",
		},
	},
	"reporter-boxer": {
		Key: "reporter-boxer",
		Initiator: Persona{
			Name:        "Reporter",
			Description: "a sports journalist conducting a pre-fight press conference interview",
			Behavior:    "You ask pointed questions about training, opponents, and controversies. You stay professional but push for real answers.",
		},
		Responder: Persona{
			Name:        "Boxer",
			Description: "a brash, confident professional boxer at a pre-fight press conference",
			Behavior:    "You trash-talk your opponent, boast about your record, make bold predictions, and occasionally threaten to flip the table. You're entertaining but unpredictable.",
		},
	},
	"donor-politician": {
		Key: "donor-politician",
		Initiator: Persona{
			Name:        "Donor",
			Description: "a wealthy political donor having a private dinner conversation with a politician you're considering funding",
			Behavior:    "You ask pointed questions about policy positions that affect your business interests. You're polite but transactional, and you make it clear your support depends on the right answers.",
		},
		Responder: Persona{
			Name:        "Politician",
			Description: "an ambitious politician at a private fundraising dinner, desperate for campaign contributions",
			Behavior:    "You try to please the donor without making promises that could leak to the press. You hint at favors, speak in plausible deniability, and name-drop shamelessly.",
		},
	},
	"bartender-patron": {
		Key: "bartender-patron",
		Initiator: Persona{
			Name:        "Bartender",
			Description: "a weary, seen-it-all bartender working the late shift at a dive bar",
			Behavior:    "You listen, offer unsolicited life advice, make dry observations, and occasionally cut off the patron or change the subject. You've heard every sad story before.",
		},
		Responder: Persona{
			Name:        "Patron",
			Description: "a drunk patron at a dive bar at 1 AM who clearly has something on their mind",
			Behavior:    "You ramble, go on tangents, get emotional, contradict yourself, and occasionally order another drink mid-sentence. You're convinced this is the most important conversation of your life.",
		},
	},
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupPreset(name string) (PresetPair, error) {
	pair, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PresetPair{}, fmt.Errorf("unknown preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return pair, nil
}

func personaVars(self, other Persona) map[string]string {
	return map[string]string{
		"persona_name":        self.Name,
		"persona_description": self.Description,
		"persona_behavior":    self.Behavior,
		"other_persona":       other.Name,
	}
}

package gadget

import (
	"fmt"
	"math/rand"
	"regexp"
)

// Word lists for codename generation. Two-word codenames
// (adjective + animal) give ~10k combinations; collisions are possible
// and surface as ErrNameExists from the repository.
var (
	codenameAdjectives = []string{
		"silent", "crimson", "velvet", "phantom", "gilded", "midnight",
		"arctic", "shadow", "lucid", "rogue", "amber", "cobalt",
		"feral", "hollow", "iron", "jade", "nimble", "obsidian",
		"quartz", "rustic", "sable", "tidal", "umbral", "vivid",
		"wandering", "zealous", "brisk", "dapper", "elusive", "frosty",
		"grim", "hasty", "keen", "lunar", "mirthful", "nocturnal",
		"opaque", "plucky", "quiet", "restless", "sly", "tenacious",
		"unseen", "vagrant", "wily", "azure", "bold", "cunning",
		"deft", "eager",
	}

	codenameAnimals = []string{
		"kiwi", "falcon", "viper", "mongoose", "lynx", "heron",
		"badger", "cormorant", "dingo", "ermine", "ferret", "gecko",
		"hornet", "ibis", "jackal", "kestrel", "lemur", "marten",
		"narwhal", "ocelot", "pangolin", "quokka", "raven", "stoat",
		"tapir", "urchin", "vulture", "wombat", "yak", "zebu",
		"adder", "bittern", "caracal", "dunlin", "egret", "fossa",
		"gibbon", "hoopoe", "impala", "jerboa", "kite", "loris",
		"magpie", "numbat", "osprey", "puffin", "quail", "serval",
		"tern", "weasel",
	}
)

// successUpperBound is the exclusive upper bound for generated
// success probabilities.
const successUpperBound = 100

// successPattern matches digits-only success values on update.
// Note: the pattern enforces no upper bound, so update-time values
// above 100 are accepted while creation stays within [0, 100).
var successPattern = regexp.MustCompile(`^\d+$`)

// GenerateCodename returns a random two-word gadget codename.
//
// Example: "silent kiwi"
func GenerateCodename() string {
	adj := codenameAdjectives[rand.Intn(len(codenameAdjectives))]
	animal := codenameAnimals[rand.Intn(len(codenameAnimals))]
	return fmt.Sprintf("%s %s", adj, animal)
}

// RandomSuccess returns a random success probability in [0, 100).
func RandomSuccess() int {
	return rand.Intn(successUpperBound)
}

// IsNumericString reports whether s consists solely of ASCII digits.
func IsNumericString(s string) bool {
	return successPattern.MatchString(s)
}

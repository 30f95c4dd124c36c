package provision

import (
	"github.com/fulmenhq/stylelint-provision/pkg/presets"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
)

// PresetQuestionMessage is shown above the preset menu.
const PresetQuestionMessage = "Which preset would you like to use for stylelint?"

// PresetQuestion asks for one preset from the table. It is skipped when an
// answer is already present so repeated provisioning passes ask only once.
func PresetQuestion() prompt.Question {
	names := presets.Names()
	choices := make([]prompt.Choice, len(names))
	for i, n := range names {
		choices[i] = prompt.Choice{Name: n, Value: n}
	}
	return prompt.Question{
		Type:    prompt.TypeList,
		Name:    QuestionName,
		Message: PresetQuestionMessage,
		Choices: choices,
		When:    func(a prompt.Answers) bool { return !a.Has(QuestionName) },
	}
}

// Questions returns the questions opts still needs answered: none when
// presets were supplied (even as an empty list), otherwise the preset question.
func Questions(opts Options) []prompt.Question {
	if opts.Presets.Supplied() {
		return []prompt.Question{}
	}
	return []prompt.Question{PresetQuestion()}
}

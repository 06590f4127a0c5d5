package survey

import (
	"fmt"

	"github.com/formdesk/formdesk/model"
	"github.com/hashicorp/go-multierror"
)

// CheckPublishable collects every structural violation that prevents a
// questionnaire from being published: each choice-type question must carry
// at least two options.
func CheckPublishable(questions []model.Question) error {
	var result *multierror.Error
	for _, question := range questions {
		if question.HasOptions() && len(question.Options) < 2 {
			result = multierror.Append(result,
				fmt.Errorf("question %q needs at least 2 options", question.Title))
		}
	}
	return result.ErrorOrNil()
}

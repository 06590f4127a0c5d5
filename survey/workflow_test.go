package survey

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/model"
)

const testPhone = "13812345678"

// seedQuestionnaire stores a published questionnaire with a required single
// choice, an optional multiple choice with a custom-input option, an
// optional text and an optional rating question. Returns it with questions
// and options loaded, in sort order.
func seedQuestionnaire(t *testing.T, db *gorm.DB) model.Questionnaire {
	t.Helper()

	questionnaire := model.Questionnaire{
		Title:  "Canteen Feedback",
		Status: model.QuestionnaireStatusPublished,
	}
	require.NoError(t, db.Create(&questionnaire).Error)

	questions := []model.Question{
		{
			QuestionnaireID: questionnaire.ID,
			Title:           "How often do you eat here?",
			Type:            model.QuestionTypeSingleChoice,
			IsRequired:      true,
			SortOrder:       1,
			Options: []model.Option{
				{Text: "Daily", SortOrder: 1},
				{Text: "Weekly", SortOrder: 2},
			},
		},
		{
			QuestionnaireID: questionnaire.ID,
			Title:           "What would you improve?",
			Type:            model.QuestionTypeMultipleChoice,
			SortOrder:       2,
			Options: []model.Option{
				{Text: "Taste", SortOrder: 1},
				{Text: "Price", SortOrder: 2},
				{Text: "Other", SortOrder: 3, IsOther: true, AllowInput: true},
			},
		},
		{
			QuestionnaireID: questionnaire.ID,
			Title:           "Any comments?",
			Type:            model.QuestionTypeText,
			SortOrder:       3,
		},
		{
			QuestionnaireID: questionnaire.ID,
			Title:           "Overall score",
			Type:            model.QuestionTypeRating,
			SortOrder:       4,
		},
	}
	require.NoError(t, db.Create(&questions).Error)

	var loaded model.Questionnaire
	require.NoError(t, db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&loaded, questionnaire.ID).Error)
	return loaded
}

// key renders an id the way submission answers are keyed.
func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestSubmitHappyPath(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single, multi, text, rating := questionnaire.Questions[0], questionnaire.Questions[1], questionnaire.Questions[2], questionnaire.Questions[3]
	other := multi.Options[2]

	userID := uint(7)
	response, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: testPhone,
		Name:  "Zhang San",
		Answers: map[string]AnswerInput{
			key(single.ID): strAnswer(key(single.Options[0].ID)),
			key(multi.ID): {
				Options:      []string{key(multi.Options[1].ID), key(other.ID)},
				CustomInputs: map[string]string{key(other.ID): "more seating"},
			},
			key(text.ID):   strAnswer("keep it up"),
			key(rating.ID): strAnswer("4.5"),
		},
	}, SubmissionMeta{UserID: &userID, IP: "10.0.0.1", UserAgent: "test-agent"})
	require.NoError(t, err)

	assert.Equal(t, model.ResponseStatusCompleted, response.Status)
	assert.NotNil(t, response.SubmitTime)

	var stored model.Response
	require.NoError(t, db.Preload("Answers").First(&stored, response.ID).Error)
	assert.Equal(t, testPhone, stored.Phone)
	assert.Equal(t, "Zhang San", stored.Name)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
	assert.Equal(t, "test-agent", stored.UserAgent)
	require.Len(t, stored.Answers, 4)

	byQuestion := make(map[uint]model.Answer)
	for _, answer := range stored.Answers {
		byQuestion[answer.QuestionID] = answer
	}

	singleAnswer, multiAnswer := byQuestion[single.ID], byQuestion[multi.ID]
	assert.Equal(t, []uint{single.Options[0].ID}, singleAnswer.GetOptionIDs())
	assert.Equal(t, []uint{multi.Options[1].ID, other.ID}, multiAnswer.GetOptionIDs())
	assert.Equal(t, map[string]string{key(other.ID): "more seating"}, multiAnswer.CustomInputs.Data())
	assert.Equal(t, "keep it up", byQuestion[text.ID].Text)
	assert.Equal(t, "4.5", byQuestion[rating.ID].Value)
}

func TestSubmitRatingNormalized(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single, rating := questionnaire.Questions[0], questionnaire.Questions[3]

	response, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: testPhone,
		Answers: map[string]AnswerInput{
			key(single.ID): strAnswer(key(single.Options[0].ID)),
			key(rating.ID): strAnswer("3.0"),
		},
	}, SubmissionMeta{})
	require.NoError(t, err)

	var answer model.Answer
	require.NoError(t, db.Where("response_id = ? AND question_id = ?", response.ID, rating.ID).First(&answer).Error)
	assert.Equal(t, "3", answer.Value)
}

func TestSubmitMissingRequired(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	text := questionnaire.Questions[2]

	_, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: testPhone,
		Answers: map[string]AnswerInput{
			key(text.ID): strAnswer("only optional answered"),
		},
	}, SubmissionMeta{})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.EqualError(t, err, `question "How often do you eat here?" is a required field`)

	// nothing was persisted
	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitInvalidAnswer(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single, rating := questionnaire.Questions[0], questionnaire.Questions[3]

	_, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: testPhone,
		Answers: map[string]AnswerInput{
			key(single.ID): strAnswer(key(single.Options[0].ID)),
			key(rating.ID): strAnswer("6"),
		},
	}, SubmissionMeta{})
	assert.EqualError(t, err, "rating must be between 1 and 5")

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitUnknownQuestion(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single := questionnaire.Questions[0]

	_, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: testPhone,
		Answers: map[string]AnswerInput{
			key(single.ID): strAnswer(key(single.Options[0].ID)),
			"9999":         strAnswer("stray"),
		},
	}, SubmissionMeta{})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.EqualError(t, err, "unknown question 9999")

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitInvalidPhone(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single := questionnaire.Questions[0]

	_, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: "12345",
		Answers: map[string]AnswerInput{
			key(single.ID): strAnswer(key(single.Options[0].ID)),
		},
	}, SubmissionMeta{})
	assert.EqualError(t, err, "invalid phone number")
	assert.IsType(t, &ValidationError{}, err)
}

func TestSubmitNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := Submit(context.Background(), db, 999, SubmissionInput{Phone: testPhone}, SubmissionMeta{})
	assert.ErrorIs(t, err, ErrQuestionnaireNotFound)
}

func TestSubmitEligibility(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single := questionnaire.Questions[0]
	answers := map[string]AnswerInput{
		key(single.ID): strAnswer(key(single.Options[0].ID)),
	}
	submit := func() error {
		_, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
			Phone:   testPhone,
			Answers: answers,
		}, SubmissionMeta{})
		return err
	}

	set := func(column string, value any) {
		require.NoError(t, db.Model(&model.Questionnaire{}).
			Where("id = ?", questionnaire.ID).
			Update(column, value).Error)
	}

	set("status", model.QuestionnaireStatusDraft)
	assert.EqualError(t, submit(), "questionnaire is not open")

	set("status", model.QuestionnaireStatusStopped)
	assert.EqualError(t, submit(), "questionnaire is not open")

	set("status", model.QuestionnaireStatusPublished)
	set("start_time", time.Now().Add(time.Hour))
	assert.EqualError(t, submit(), "questionnaire is not yet open")

	set("start_time", nil)
	set("end_time", time.Now().Add(-time.Hour))
	assert.EqualError(t, submit(), "questionnaire is closed")
	set("end_time", nil)

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitLifecycleEndToEnd(t *testing.T) {
	db := openTestDB(t)

	questionnaire := model.Questionnaire{
		Title:  "Quick Poll",
		Status: model.QuestionnaireStatusPublished,
	}
	require.NoError(t, db.Create(&questionnaire).Error)
	question := model.Question{
		QuestionnaireID: questionnaire.ID,
		Title:           "Best option?",
		Type:            model.QuestionTypeSingleChoice,
		IsRequired:      true,
		Options: []model.Option{
			{Text: "A", SortOrder: 1},
			{Text: "B", SortOrder: 2},
		},
	}
	require.NoError(t, db.Create(&question).Error)

	response, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: "13800000000",
		Answers: map[string]AnswerInput{
			key(question.ID): strAnswer(key(question.Options[0].ID)),
		},
	}, SubmissionMeta{})
	require.NoError(t, err)
	assert.Equal(t, model.ResponseStatusCompleted, response.Status)

	stored, parent, err := LoadResponseView(db, response.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 1)
	require.Len(t, parent.Questions, 1)

	assert.Equal(t, []string{"A"}, OptionTexts(stored.Answers[0], parent.Questions[0].Options))
	assert.Equal(t, "A", DisplayValue(stored.Answers[0], parent.Questions[0].Options))

	complete, missing := ValidateCompletion(parent.Questions, stored.Answers)
	assert.True(t, complete)
	assert.Empty(t, missing)

	require.NoError(t, db.Model(&model.Questionnaire{}).
		Where("id = ?", questionnaire.ID).
		Update("max_responses", 1).Error)
	_, err = Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
		Phone: "13800000000",
		Answers: map[string]AnswerInput{
			key(question.ID): strAnswer(key(question.Options[0].ID)),
		},
	}, SubmissionMeta{})
	assert.EqualError(t, err, "response cap reached")
}

func TestSubmitResponseCap(t *testing.T) {
	db := openTestDB(t)
	questionnaire := seedQuestionnaire(t, db)
	single := questionnaire.Questions[0]
	require.NoError(t, db.Model(&model.Questionnaire{}).
		Where("id = ?", questionnaire.ID).
		Update("max_responses", 1).Error)

	submit := func() error {
		_, err := Submit(context.Background(), db, questionnaire.ID, SubmissionInput{
			Phone: testPhone,
			Answers: map[string]AnswerInput{
				key(single.ID): strAnswer(key(single.Options[0].ID)),
			},
		}, SubmissionMeta{})
		return err
	}

	require.NoError(t, submit())

	err := submit()
	require.Error(t, err)
	assert.IsType(t, &EligibilityError{}, err)
	assert.EqualError(t, err, "response cap reached")
}

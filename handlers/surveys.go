package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"almoner/database"
	"almoner/models"
)

// ListSurveyQuestions returns all questions in display order
func ListSurveyQuestions(c *fiber.Ctx) error {
	var questions []models.SurveyQuestion
	if result := database.DB.Order("position").Find(&questions); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch survey questions",
		})
	}

	return c.JSON(questions)
}

// CreateSurveyQuestion creates a new question
func CreateSurveyQuestion(c *fiber.Ctx) error {
	var input models.SurveyQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}
	if input.Kind == "" {
		input.Kind = models.QuestionKindText
	}
	if !models.ValidQuestionKind(input.Kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Kind must be 'text', 'choice' or 'scale'",
		})
	}
	if input.Kind == models.QuestionKindChoice && len(input.Choices) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Choice questions need at least one choice",
		})
	}

	question := models.SurveyQuestion{
		Prompt: input.Prompt,
		Kind:   input.Kind,
		Active: true,
	}
	if len(input.Choices) > 0 {
		choices, err := json.Marshal(input.Choices)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid choices",
			})
		}
		question.Choices = string(choices)
	}
	if input.Active != nil {
		question.Active = *input.Active
	}

	// New questions go to the end unless a position is given
	if input.Position != nil {
		question.Position = *input.Position
	} else {
		var maxPosition int
		database.DB.Model(&models.SurveyQuestion{}).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPosition)
		question.Position = maxPosition + 1
	}

	if result := database.DB.Create(&question); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create survey question",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateSurveyQuestion updates an existing question
func UpdateSurveyQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.SurveyQuestion
	if result := database.DB.First(&question, questionID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Survey question not found",
		})
	}

	var input models.SurveyQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Prompt != "" {
		question.Prompt = input.Prompt
	}
	if input.Kind != "" {
		if !models.ValidQuestionKind(input.Kind) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Kind must be 'text', 'choice' or 'scale'",
			})
		}
		question.Kind = input.Kind
	}
	if input.Choices != nil {
		choices, err := json.Marshal(input.Choices)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid choices",
			})
		}
		question.Choices = string(choices)
	}
	if input.Position != nil {
		question.Position = *input.Position
	}
	if input.Active != nil {
		question.Active = *input.Active
	}

	if result := database.DB.Save(&question); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update survey question",
		})
	}

	return c.JSON(question)
}

// DeleteSurveyQuestion deletes a question and its responses
func DeleteSurveyQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.SurveyQuestion
	if result := database.DB.First(&question, questionID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Survey question not found",
		})
	}

	database.DB.Where("question_id = ?", questionID).Delete(&models.SurveyResponse{})

	if result := database.DB.Delete(&question); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete survey question",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListSurveyResponses returns responses, newest first, optionally
// filtered by question or donor.
func ListSurveyResponses(c *fiber.Ctx) error {
	query := database.DB.Model(&models.SurveyResponse{})

	if questionIDStr := c.Query("question_id"); questionIDStr != "" {
		if questionID, err := strconv.ParseUint(questionIDStr, 10, 32); err == nil {
			query = query.Where("question_id = ?", questionID)
		}
	}
	if donorIDStr := c.Query("donor_id"); donorIDStr != "" {
		if donorID, err := strconv.ParseUint(donorIDStr, 10, 32); err == nil {
			query = query.Where("donor_id = ?", donorID)
		}
	}

	var responses []models.SurveyResponse
	if result := query.Order("created_at DESC").Find(&responses); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch survey responses",
		})
	}

	return c.JSON(responses)
}

// CreateSurveyResponse records a donor's answer
func CreateSurveyResponse(c *fiber.Ctx) error {
	var input models.SurveyResponseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Answer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Answer is required",
		})
	}

	var question models.SurveyQuestion
	if result := database.DB.First(&question, input.QuestionID); result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Survey question not found",
		})
	}
	var donor models.Donor
	if result := database.DB.First(&donor, input.DonorID); result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Donor not found",
		})
	}

	response := models.SurveyResponse{
		QuestionID: input.QuestionID,
		DonorID:    input.DonorID,
		Answer:     input.Answer,
	}

	if result := database.DB.Create(&response); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create survey response",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// DeleteSurveyResponse removes one response
func DeleteSurveyResponse(c *fiber.Ctx) error {
	responseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid response ID",
		})
	}

	var response models.SurveyResponse
	if result := database.DB.First(&response, responseID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Survey response not found",
		})
	}

	if result := database.DB.Delete(&response); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete survey response",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

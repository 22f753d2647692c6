package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"github.com/equipehub/team-dashboard-api/internal/constants"
	"github.com/equipehub/team-dashboard-api/internal/logging"
)

// AIService extracts task suggestions from free text (meeting notes, customer
// emails) using OpenAI. Calls go through a circuit breaker so a degraded
// upstream does not stall the dashboard.
type AIService struct {
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
}

type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "OpenAICB",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.WithFields(map[string]interface{}{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Info("circuit breaker state change")
			},
		}),
	}
}

// GenerateTasksFromText analyzes text and extracts tasks using OpenAI GPT.
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`Você é um assistente de extração de tarefas. Extraia tarefas concretas do texto abaixo.

Hora atual: %s

Texto:
%s

Responda com um array JSON de tarefas:
[
  {
    "title": "título curto da tarefa",
    "description": "descrição detalhada",
    "priority": "low, medium ou high",
    "due_date": "prazo em formato ISO8601 (ex: 2025-10-28T23:59:59Z), ou null se não houver"
  }
]

Regras:
- Se não houver nenhuma tarefa, responda com um array vazio []
- Converta prazos relativos ("amanhã", "semana que vem") em datas concretas
- Responda apenas com o JSON, sem texto adicional`, currentTime, text)

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model: openai.GPT4o,
				Messages: []openai.ChatCompletionMessage{
					{
						Role:    openai.ChatMessageRoleUser,
						Content: prompt,
					},
				},
				Temperature: 0.3,
			},
		)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	if len(tasks) > constants.MaxAIGeneratedTasks {
		tasks = tasks[:constants.MaxAIGeneratedTasks]
	}

	return tasks, nil
}

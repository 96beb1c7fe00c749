package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"rfpflow/internal/errx"
	logx "rfpflow/pkg/logger"
)

// Поля RFP, извлеченные из свободного текста.
type RfpFields struct {
	Title                *string  `json:"title"`
	Budget               *float64 `json:"budget"`
	DeliveryTimelineDays *int     `json:"deliveryTimelineDays"`
	PaymentTerms         *string  `json:"paymentTerms"`
	WarrantyMonths       *int     `json:"warrantyMonths"`
}

// Коммерческие условия из ответа поставщика.
type ProposalFields struct {
	TotalPrice     *float64 `json:"totalPrice"`
	DeliveryDays   *int     `json:"deliveryDays"`
	PaymentTerms   *string  `json:"paymentTerms"`
	WarrantyMonths *int     `json:"warrantyMonths"`
	Notes          *string  `json:"notes"`
}

// Контекст RFP для сравнения предложений.
type RfpContext struct {
	RfpID                int      `json:"rfpId"`
	Title                string   `json:"title"`
	Budget               *float64 `json:"budget"`
	DeliveryTimelineDays *int     `json:"deliveryTimelineDays"`
	PaymentTerms         *string  `json:"paymentTerms"`
	WarrantyMonths       *int     `json:"warrantyMonths"`
}

// Контекст одного предложения для сравнения.
type ProposalContext struct {
	ProposalID     int      `json:"proposalId"`
	VendorID       int      `json:"vendorId"`
	VendorName     string   `json:"vendorName"`
	TotalPrice     *float64 `json:"totalPrice"`
	DeliveryDays   *int     `json:"deliveryDays"`
	PaymentTerms   *string  `json:"paymentTerms"`
	WarrantyMonths *int     `json:"warrantyMonths"`
	Notes          *string  `json:"notes"`
}

type ComparisonInput struct {
	Rfp       RfpContext        `json:"rfp"`
	Proposals []ProposalContext `json:"proposals"`
}

type ScoredProposal struct {
	ProposalID int     `json:"proposalId"`
	Score      float64 `json:"score"`
	Strengths  string  `json:"strengths"`
	Weaknesses string  `json:"weaknesses"`
}

type ComparisonOutcome struct {
	Proposals             []ScoredProposal `json:"proposals"`
	RecommendedProposalID *int             `json:"recommendedProposalId"`
	Reasoning             string           `json:"reasoning"`
}

// completionClient изолирует вызов модели от разбора результата;
// в тестах подменяется стабом.
type completionClient interface {
	Complete(ctx context.Context, model string, temperature float64, system, user string) (string, error)
}

type Config struct {
	APIKey          string
	ExtractionModel string
	ComparisonModel string
	ExtractionTemp  float64
	ComparisonTemp  float64
}

// Extractor конвертирует свободный текст в структуры через вызов модели
// с контрактом "только JSON". Ретраев нет — политика повторов у вызывающего.
type Extractor struct {
	client          completionClient
	extractionModel string
	comparisonModel string
	extractionTemp  float64
	comparisonTemp  float64
}

func NewExtractor(cfg Config) *Extractor {
	return &Extractor{
		client:          newOpenAIClient(cfg.APIKey),
		extractionModel: cfg.ExtractionModel,
		comparisonModel: cfg.ComparisonModel,
		extractionTemp:  cfg.ExtractionTemp,
		comparisonTemp:  cfg.ComparisonTemp,
	}
}

// NewExtractorWithClient — для тестов.
func NewExtractorWithClient(client completionClient, cfg Config) *Extractor {
	e := NewExtractor(cfg)
	e.client = client
	return e
}

func (e *Extractor) ExtractRfp(ctx context.Context, text string) (*RfpFields, error) {
	var fields RfpFields
	if err := e.extract(ctx, e.extractionModel, e.extractionTemp, rfpExtractionPrompt, text, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

func (e *Extractor) ExtractProposal(ctx context.Context, text string) (*ProposalFields, error) {
	var fields ProposalFields
	if err := e.extract(ctx, e.extractionModel, e.extractionTemp, proposalExtractionPrompt, text, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// Compare использует чуть более высокую температуру: сильные/слабые стороны
// требуют качественной оценки, а не буквального извлечения.
func (e *Extractor) Compare(ctx context.Context, input ComparisonInput) (*ComparisonOutcome, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	var outcome ComparisonOutcome
	if err := e.extract(ctx, e.comparisonModel, e.comparisonTemp, comparisonPrompt, string(payload), &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (e *Extractor) extract(ctx context.Context, model string, temperature float64, prompt, input string, out any) error {
	content, err := e.client.Complete(ctx, model, temperature, prompt, input)
	if err != nil {
		return errx.Wrap(errx.ErrUpstreamUnavailable, "model call failed", err)
	}
	if strings.TrimSpace(content) == "" {
		return errx.New(errx.ErrUpstreamUnavailable, "model returned no content")
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		logx.Error().Err(err).Str("raw", content).Msg("model output is not valid JSON")
		return errx.Wrap(errx.ErrMalformedOutput, "model output is not valid JSON", err)
	}
	return nil
}

type openAIClient struct {
	client openai.Client
}

func newOpenAIClient(apiKey string) *openAIClient {
	return &openAIClient{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *openAIClient) Complete(ctx context.Context, model string, temperature float64, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

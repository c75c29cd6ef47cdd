package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash"

	// instructionsFallback keeps the service bootable when the template
	// file is missing; prompts degrade but requests still work.
	instructionsFallback = "Failed to load instructions."

	promptSeparator = "\n\nHere is the recipe text to analyze:\n\n"
)

// ExtractionService handles interactions with the Gemini API.
type ExtractionService struct {
	apiKey       string
	baseURL      string
	model        string
	instructions string
	client       *http.Client
	logger       *zap.Logger
}

// NewExtractionService creates an ExtractionService. The instruction template
// is read once from instructionsPath; when unreadable a sentinel string is
// substituted so startup still succeeds.
func NewExtractionService(apiKey, baseURL, model, instructionsPath string, logger *zap.Logger) *ExtractionService {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}

	instructions := instructionsFallback
	if data, err := os.ReadFile(instructionsPath); err == nil {
		instructions = string(data)
	} else {
		logger.Error("failed to read instructions file, using fallback",
			zap.String("path", instructionsPath), zap.Error(err))
	}

	return &ExtractionService{
		apiKey:       apiKey,
		baseURL:      baseURL,
		model:        model,
		instructions: instructions,
		client:       &http.Client{},
		logger:       logger,
	}
}

// Instructions returns the loaded instruction template.
func (s *ExtractionService) Instructions() string {
	return s.instructions
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiChunk is one streamed generateContent response.
type geminiChunk struct {
	Candidates []struct {
		Content *struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends the instruction template plus content to Gemini in streaming
// mode and accumulates every chunk, in arrival order, into one string.
func (s *ExtractionService) Extract(ctx context.Context, content string) (string, error) {
	prompt := s.instructions + promptSeparator + content

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ExtractionError{Details: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", &ExtractionError{Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &ExtractionError{Details: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return "", &ExtractionError{Details: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	raw, err := s.accumulateStream(resp.Body)
	if err != nil {
		return "", err
	}

	s.logger.Info("response received from Gemini",
		zap.String("model", s.model), zap.Int("chars", len(raw)))
	return raw, nil
}

// accumulateStream reads SSE "data:" events and concatenates candidate text.
// Streaming only guards against oversized single responses; no chunk is
// meaningful on its own, so ordering is strictly FIFO.
func (s *ExtractionService) accumulateStream(body io.Reader) (string, error) {
	var out strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var chunk geminiChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", &ExtractionError{Details: fmt.Sprintf("malformed stream chunk: %v", err)}
		}
		if chunk.Error != nil {
			return "", &ExtractionError{Details: chunk.Error.Message}
		}

		for _, cand := range chunk.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				out.WriteString(part.Text)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", &ExtractionError{Details: fmt.Sprintf("stream read error: %v", err)}
	}

	return out.String(), nil
}

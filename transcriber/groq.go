package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"livecap/encoder"
)

const groqAPIURL = "https://api.groq.com/openai/v1/audio/transcriptions"

type Groq struct {
	client *TracedClient
	apiURL string
	apiKey string
	model  string
	format string
	lang   string
}

func NewGroq(apiKey, model, format string) *Groq {
	if model == "" {
		model = "whisper-large-v3-turbo"
	}
	if format == "" {
		format = "wav"
	}
	return &Groq{
		client: NewTracedClient(),
		apiURL: groqAPIURL,
		apiKey: apiKey,
		model:  model,
		format: format,
	}
}

func (g *Groq) Name() string            { return "groq" }
func (g *Groq) SetLanguage(lang string) { g.lang = lang }
func (g *Groq) GetLanguage() string     { return g.lang }

type groqResponse struct {
	Text string `json:"text"`
}

func (g *Groq) Transcribe(ctx context.Context, samples []float32, sampleRate int) (*Result, error) {
	encodeStart := time.Now()
	audioData, err := g.encode(samples, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	encodeTime := time.Since(encodeStart)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+g.format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	writer.WriteField("model", g.model)
	writer.WriteField("response_format", "json")
	if g.lang != "" {
		writer.WriteField("language", g.lang)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", g.apiURL, &body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: groq API error %d: %s", ErrTranscription, resp.StatusCode, string(resp.Body))
	}

	var gResp groqResponse
	if err := json.Unmarshal(resp.Body, &gResp); err != nil {
		return nil, fmt.Errorf("%w: groq response parse error: %v", ErrTranscription, err)
	}

	remaining := firstNonEmpty(resp.Header, "x-ratelimit-remaining-requests")
	limit := firstNonEmpty(resp.Header, "x-ratelimit-limit-requests")

	return &Result{
		Text:       strings.TrimSpace(gResp.Text),
		Metrics:    resp.Metrics,
		RateLimit:  remaining + "/" + limit,
		EncodeTime: encodeTime,
		RawBytes:   len(samples) * 2,
		Encoded:    len(audioData),
	}, nil
}

func (g *Groq) encode(samples []float32, sampleRate int) ([]byte, error) {
	enc, err := encoder.New(g.format, sampleRate)
	if err != nil {
		return nil, err
	}
	pcm := encoder.Quantize(samples)
	for len(pcm) > 0 {
		n := min(len(pcm), encoder.BlockSize)
		if err := enc.EncodeBlock(pcm[:n]); err != nil {
			return nil, err
		}
		pcm = pcm[n:]
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

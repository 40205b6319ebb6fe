// Package textract adapts AWS Textract to port.DocumentAnalyzer.
package textract

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"supplierx/internal/config"
	"supplierx/internal/port"
)

type analyzer struct {
	client *textract.Client
}

// NewAnalyzer creates a Textract-backed DocumentAnalyzer.
func NewAnalyzer(cfg *config.TextractConfig) (port.DocumentAnalyzer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var txOpts []func(*textract.Options)
	if cfg.Endpoint != "" {
		txOpts = append(txOpts, func(o *textract.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &analyzer{client: textract.NewFromConfig(awsCfg, txOpts...)}, nil
}

// tablesResponse mirrors the AnalyzeDocument response fields returned to callers.
type tablesResponse struct {
	DocumentMetadata            *types.DocumentMetadata `json:"DocumentMetadata"`
	Blocks                      []types.Block           `json:"Blocks"`
	AnalyzeDocumentModelVersion *string                 `json:"AnalyzeDocumentModelVersion,omitempty"`
}

func (a *analyzer) AnalyzeTables(ctx context.Context, document []byte) (json.RawMessage, error) {
	out, err := a.client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document:     &types.Document{Bytes: document},
		FeatureTypes: []types.FeatureType{types.FeatureTypeTables},
	})
	if err != nil {
		return nil, fmt.Errorf("textract analyze document: %w", err)
	}

	body, err := json.Marshal(tablesResponse{
		DocumentMetadata:            out.DocumentMetadata,
		Blocks:                      out.Blocks,
		AnalyzeDocumentModelVersion: out.AnalyzeDocumentModelVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	return body, nil
}

// AnalyzeText runs synchronous DetectDocumentText, which Textract limits to single-page
// documents; a multi-page PDF comes back as an UnsupportedDocumentException error.
func (a *analyzer) AnalyzeText(ctx context.Context, document []byte) (string, error) {
	out, err := a.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: document},
	})
	if err != nil {
		return "", fmt.Errorf("textract detect document text: %w", err)
	}
	return LinesText(out.Blocks), nil
}

// LinesText joins the LINE blocks in page order, one per line. Words, tables and other
// block types are dropped.
func LinesText(blocks []types.Block) string {
	lines := make([]types.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.BlockType == types.BlockTypeLine && b.Text != nil {
			lines = append(lines, b)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return aws.ToInt32(lines[i].Page) < aws.ToInt32(lines[j].Page)
	})

	texts := make([]string, len(lines))
	for i, b := range lines {
		texts[i] = aws.ToString(b.Text)
	}
	return strings.Join(texts, "\n")
}

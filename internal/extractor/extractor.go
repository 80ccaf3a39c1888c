package extractor

import (
	"strings"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"go.uber.org/zap"
)

// Strategy is one text extraction heuristic. Extract returns the text it
// recovered from the raw document bytes, or an error when the strategy
// does not apply or recovered nothing.
type Strategy interface {
	Name() string
	Extract(data []byte) (string, error)
}

// Chain tries its strategies in rank order and accepts the first
// non-empty result. The ordering is the contract: higher-fidelity
// strategies come first, the byte scanner is the last resort.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	return &Chain{
		strategies: strategies,
		logger:     logger,
	}
}

// NewDefaultChain builds the production chain: DOCX, PDF text objects,
// printable-byte scan.
func NewDefaultChain(logger *zap.Logger) *Chain {
	return NewChain(logger,
		NewDOCXStrategy(),
		NewPDFTextStrategy(),
		NewASCIIScanStrategy(),
	)
}

// Extract runs the chain. It returns entity.ErrNoExtractableText when no
// strategy recovers meaningful text.
func (c *Chain) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrNoExtractableText
	}

	for _, s := range c.strategies {
		text, err := s.Extract(data)
		if err != nil {
			c.logger.Debug("extraction strategy failed",
				zap.String("strategy", s.Name()),
				zap.Error(err),
			)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			c.logger.Debug("extraction strategy recovered no text",
				zap.String("strategy", s.Name()),
			)
			continue
		}

		c.logger.Debug("extraction strategy succeeded",
			zap.String("strategy", s.Name()),
			zap.Int("text_length", len(text)),
		)
		return text, nil
	}

	return "", entity.ErrNoExtractableText
}

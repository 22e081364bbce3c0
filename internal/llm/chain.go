package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
)

// AdvisorChain asks each advisor in turn and returns the first success. Each
// attempt gets its own timeout so a slow remote leaves time for the fallback.
type AdvisorChain struct {
	advisors []Advisor
	timeout  time.Duration
}

func NewAdvisorChain(timeout time.Duration, advisors ...Advisor) *AdvisorChain {
	c := &AdvisorChain{timeout: timeout}
	for _, a := range advisors {
		if a != nil {
			c.advisors = append(c.advisors, a)
		}
	}
	return c
}

func (c *AdvisorChain) Name() string { return "chain" }

func (c *AdvisorChain) Recommend(ctx context.Context, in AnalysisInput) ([]models.Recommendation, error) {
	recs, _, err := c.RecommendFrom(ctx, in)
	return recs, err
}

// RecommendFrom also reports which advisor produced the result.
func (c *AdvisorChain) RecommendFrom(ctx context.Context, in AnalysisInput) ([]models.Recommendation, string, error) {
	var errs []error
	for _, advisor := range c.advisors {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		recs, err := withTimeout(ctx, c.timeout, func(ctx context.Context) ([]models.Recommendation, error) {
			return advisor.Recommend(ctx, in)
		})
		if err == nil {
			return recs, advisor.Name(), nil
		}
		log.Printf("action: recommend | result: fallback | advisor: %s | error: %v", advisor.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", advisor.Name(), err))
	}
	return nil, "", fmt.Errorf("%w: %w", models.ErrCollaborator, errors.Join(errs...))
}

// ParserChain tries each parser in turn. The returned error joins every
// attempt, so errors.Is still finds ErrParse when the data itself is bad.
type ParserChain struct {
	parsers []Parser
	timeout time.Duration
}

func NewParserChain(timeout time.Duration, parsers ...Parser) *ParserChain {
	c := &ParserChain{timeout: timeout}
	for _, p := range parsers {
		if p != nil {
			c.parsers = append(c.parsers, p)
		}
	}
	return c
}

func (c *ParserChain) Name() string { return "chain" }

func (c *ParserChain) Parse(ctx context.Context, raw, format string) (ParseResult, error) {
	var errs []error
	for _, parser := range c.parsers {
		if err := ctx.Err(); err != nil {
			return ParseResult{}, err
		}
		res, err := withTimeout(ctx, c.timeout, func(ctx context.Context) (ParseResult, error) {
			return parser.Parse(ctx, raw, format)
		})
		if err == nil {
			return res, nil
		}
		log.Printf("action: parse | result: fallback | parser: %s | error: %v", parser.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", parser.Name(), err))
	}
	if len(errs) == 0 {
		return ParseResult{}, fmt.Errorf("%w: no parser configured", models.ErrCollaborator)
	}
	return ParseResult{}, errors.Join(errs...)
}

func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}

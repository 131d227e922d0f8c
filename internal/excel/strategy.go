package excel

import (
	"context"

	"github.com/monperrus/ladok3/internal/model"
)

type ParsingStrategy interface {
	Parse(ctx context.Context, data []byte) ([]model.ResultRow, error)
	Validate(ctx context.Context, results []model.ResultRow) error
}

type ExcelStrategy struct {
	parser    *Parser
	validator *Validator
}

func NewExcelStrategy() ParsingStrategy {
	return &ExcelStrategy{
		parser:    NewParser(),
		validator: NewValidator(),
	}
}

func (s *ExcelStrategy) Parse(ctx context.Context, data []byte) ([]model.ResultRow, error) {
	return s.parser.Parse(ctx, data)
}

func (s *ExcelStrategy) Validate(ctx context.Context, results []model.ResultRow) error {
	return s.validator.Validate(ctx, results)
}

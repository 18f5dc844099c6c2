package tsxml

import (
	"linguist/internal/adapters/catalog"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "ts" }

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	c, err := ts.DecodeBytes(data)
	if err != nil {
		return ports.ParseResult{}, err
	}
	return catalog.FromCatalog(c), nil
}

package dto

import "time"

type ArticleSource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt time.Time     `json:"publishedAt"`
	Content     string        `json:"content"`
}

// NewsAPIResponse is the wire format of the NewsAPI "everything" endpoint.
type NewsAPIResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

type AnalyzedArticle struct {
	Article
	Sentiment string `json:"sentiment"`
}

type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent string  `json:"changePercent"`
}

type MarketOverviewResponse struct {
	Indices []IndexQuote `json:"indices"`
}

type StockPrice struct {
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	ChangePercent string  `json:"changePercent"`
}

type StockNewsResponse struct {
	Price StockPrice `json:"price"`
	News  []Article  `json:"news"`
}

// GlobalQuoteResponse is the wire format of the Alpha Vantage GLOBAL_QUOTE
// function. The upstream keys really do contain numbered prefixes.
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

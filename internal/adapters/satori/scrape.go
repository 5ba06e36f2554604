package satori

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"contestctl/internal/domain"
)

func (c *Client) PerformLogin(ctx context.Context, username string, secret []byte) (string, error) {
	res, err := c.request("").
		SetContext(ctx).
		SetFormData(map[string]string{
			"login":    username,
			"password": string(secret),
		}).
		Post("/login")
	if err != nil {
		return "", connectionError(err)
	}

	for _, cookie := range res.Cookies() {
		if cookie.Name == tokenCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	doc, err := document(res)
	if err != nil {
		return "", err
	}
	if doc.Find("div.g-recaptcha, div.captcha").Length() > 0 {
		return "", fmt.Errorf("%w: solve the challenge in a browser and retry", domain.ErrRobotCheck)
	}

	message := strings.TrimSpace(doc.Find("div#content div.error").Text())
	if message == "" {
		message = "credentials rejected"
	}
	return "", fmt.Errorf("%w: %s", domain.ErrLoginFailed, message)
}

func (c *Client) Validate(ctx context.Context, token string) (bool, error) {
	res, err := c.request(token).
		SetContext(ctx).
		Get("/")
	if err != nil {
		return false, connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return false, err
	}
	return strings.Contains(doc.Text(), "Logged in"), nil
}

func (c *Client) FetchContests(ctx context.Context, token string) ([]domain.ContestListing, error) {
	res, err := c.request(token).
		SetContext(ctx).
		Get("/contest/select")
	if err != nil {
		return nil, connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return nil, err
	}

	// The select page carries one or two tables for a plain listing, where
	// the first body is the contest table. Pages with more tables put a
	// "joined contests" table first and the contest table second.
	bodies := doc.Find("div#content table tbody")
	var table *goquery.Selection
	switch {
	case bodies.Length() > 2:
		table = bodies.Eq(1)
	case bodies.Length() >= 1:
		table = bodies.First()
	default:
		return nil, fmt.Errorf("%w: contest table missing from select page", domain.ErrParse)
	}

	var listings []domain.ContestListing
	table.ChildrenFiltered("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td:first-child a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		id, ok := contestIDFromHref(href)
		if !ok {
			return
		}
		listings = append(listings, domain.ContestListing{
			ID:          id,
			Title:       strings.TrimSpace(link.Text()),
			Description: strings.TrimSpace(row.Children().Eq(1).Text()),
		})
	})
	return listings, nil
}

func (c *Client) FetchTasks(ctx context.Context, token string, contestID domain.ContestID) ([]domain.TaskListing, error) {
	res, err := c.request(token).
		SetContext(ctx).
		Get(fmt.Sprintf("/contest/%s/problems", contestID))
	if err != nil {
		return nil, connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return nil, err
	}

	var listings []domain.TaskListing
	doc.Find("tbody > tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Children()
		if cells.Length() < 2 || strings.EqualFold(strings.TrimSpace(cells.Eq(0).Text()), "Code") {
			return
		}
		href, ok := row.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		id, ok := taskIDFromHref(href)
		if !ok {
			return
		}
		listings = append(listings, domain.TaskListing{
			ID:   id,
			Code: strings.TrimSpace(cells.Eq(0).Text()),
			Name: strings.TrimSpace(cells.Eq(1).Text()),
		})
	})
	return listings, nil
}

func (c *Client) FetchTaskContent(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) (domain.TaskContent, error) {
	res, err := c.request(token).
		SetContext(ctx).
		Get(fmt.Sprintf("/contest/%s/problems/%s", contestID, taskID))
	if err != nil {
		return domain.TaskContent{}, connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return domain.TaskContent{}, err
	}

	statement := doc.Find("div.mainsphinx").First()
	if statement.Length() == 0 {
		return domain.TaskContent{}, fmt.Errorf("%w: statement block missing from task page", domain.ErrParse)
	}

	raw, err := goquery.OuterHtml(statement)
	if err != nil {
		return domain.TaskContent{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	var text strings.Builder
	statement.Children().Each(func(_ int, child *goquery.Selection) {
		flattenStatement(child, &text)
	})

	content := domain.TaskContent{
		Raw:         raw,
		Text:        text.String(),
		TimeLimit:   strings.TrimSpace(doc.Find("span.time-limit").First().Text()),
		MemoryLimit: strings.TrimSpace(doc.Find("span.memory-limit").First().Text()),
	}

	// Statements conventionally carry the sample input and output as the
	// first two preformatted blocks.
	samples := statement.Find("pre")
	if samples.Length() >= 2 {
		content.SampleInput = strings.TrimSpace(samples.Eq(0).Text())
		content.SampleOutput = strings.TrimSpace(samples.Eq(1).Text())
	}

	return content, nil
}

func (c *Client) FetchSubmissions(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) ([]domain.SubmissionRecord, error) {
	res, err := c.request(token).
		SetContext(ctx).
		SetQueryParam("problem", string(taskID)).
		Get(fmt.Sprintf("/contest/%s/results", contestID))
	if err != nil {
		return nil, connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return nil, err
	}

	var records []domain.SubmissionRecord
	doc.Find("tbody > tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Children()
		if cells.Length() < 3 || strings.EqualFold(strings.TrimSpace(cells.Eq(0).Text()), "ID") {
			return
		}
		id := strings.TrimSpace(cells.Eq(0).Text())
		if id == "" {
			return
		}
		submittedAt, err := time.ParseInLocation(submittedAtLayout, strings.TrimSpace(cells.Eq(2).Text()), time.Local)
		if err != nil {
			return
		}
		records = append(records, domain.SubmissionRecord{
			ID:          domain.SubmissionID(id),
			SubmittedAt: submittedAt,
		})
	})
	return records, nil
}

func (c *Client) Submit(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID, filePath string, language domain.Language) (domain.SubmitReceipt, error) {
	res, err := c.request(token).
		SetContext(ctx).
		SetFormData(map[string]string{"problem": string(taskID)}).
		SetFile("codefile", filePath).
		Post(fmt.Sprintf("/contest/%s/submit", contestID))
	if err != nil {
		return domain.SubmitReceipt{}, connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return domain.SubmitReceipt{}, err
	}

	// The submit response redirects to the results page; the fresh
	// submission is the first data row.
	row := doc.Find("table tr").Eq(1)
	cells := row.Children()
	if cells.Length() < 3 {
		return domain.SubmitReceipt{}, fmt.Errorf("%w: results row missing after submit", domain.ErrParse)
	}

	id := strings.TrimSpace(cells.Eq(0).Text())
	submittedAt, parseErr := time.ParseInLocation(submittedAtLayout, strings.TrimSpace(cells.Eq(2).Text()), time.Local)
	if id == "" || parseErr != nil {
		return domain.SubmitReceipt{}, fmt.Errorf("%w: cannot read submission receipt", domain.ErrParse)
	}

	return domain.SubmitReceipt{
		ID:          domain.SubmissionID(id),
		SubmittedAt: submittedAt,
	}, nil
}

func (c *Client) FetchVerdict(ctx context.Context, token string, contestID domain.ContestID, id domain.SubmissionID) (domain.Verdict, error) {
	res, err := c.request(token).
		SetContext(ctx).
		SetQueryParam("id", string(id)).
		Get(fmt.Sprintf("/contest/%s/results", contestID))
	if err != nil {
		return "", connectionError(err)
	}

	doc, err := document(res)
	if err != nil {
		return "", err
	}

	var verdict domain.Verdict
	doc.Find("tbody > tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Children()
		if cells.Length() < 4 {
			return true
		}
		if strings.TrimSpace(cells.Eq(0).Text()) != string(id) {
			return true
		}
		verdict = domain.Verdict(strings.TrimSpace(cells.Eq(3).Text()))
		return false
	})
	return verdict, nil
}

// flattenStatement turns statement markup into readable text: containers
// recurse, leaves contribute a line with the TeX inline markers stripped.
func flattenStatement(sel *goquery.Selection, out *strings.Builder) {
	node := goquery.NodeName(sel)
	if node == "div" || node == "table" {
		sel.Children().Each(func(_ int, child *goquery.Selection) {
			flattenStatement(child, out)
		})
		return
	}

	text := sel.Text()
	text = strings.ReplaceAll(text, `\(`, "")
	text = strings.ReplaceAll(text, `\)`, "")
	text = strings.ReplaceAll(text, `\le`, "<=")
	out.WriteString(text)
	out.WriteString("\n")
}

func contestIDFromHref(href string) (domain.ContestID, bool) {
	parts := strings.Split(href, "/")
	if len(parts) < 3 || parts[1] != "contest" || parts[2] == "" {
		return "", false
	}
	return domain.ContestID(parts[2]), true
}

func taskIDFromHref(href string) (domain.TaskID, bool) {
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	if len(parts) < 5 || parts[3] != "problems" || parts[4] == "" {
		return "", false
	}
	return domain.TaskID(parts[4]), true
}

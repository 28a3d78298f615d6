package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// ReceiptFields is the structured result of reading a receipt. Dates are
// ISO yyyy-mm-dd strings and the amount a plain decimal string; empty means
// the document did not show the field.
type ReceiptFields struct {
	Date          string `json:"date" jsonschema_description:"Document date, yyyy-mm-dd"`
	Amount        string `json:"amount" jsonschema_description:"Gross amount in CHF, e.g. 125.50"`
	Description   string `json:"description" jsonschema_description:"Short booking text"`
	DocumentRef   string `json:"documentRef" jsonschema_description:"Invoice or receipt number"`
	IssuerName    string `json:"issuerName"`
	IssuerStreet  string `json:"issuerStreet"`
	IssuerZIP     string `json:"issuerZip"`
	IssuerCity    string `json:"issuerCity"`
	IssuerCountry string `json:"issuerCountry"`
	DueDate       string `json:"dueDate" jsonschema_description:"Payment due date, yyyy-mm-dd, empty if none"`
	DebitNumber   string `json:"debitNumber" jsonschema_description:"Suggested debit account number from the provided chart, empty if unsure"`
	CreditNumber  string `json:"creditNumber" jsonschema_description:"Suggested credit account number from the provided chart, empty if unsure"`
}

// ContractFields is the structured result of reading a contract.
type ContractFields struct {
	PartnerName   string `json:"partnerName"`
	Subject       string `json:"subject" jsonschema_description:"What the contract is about, one sentence"`
	Amount        string `json:"amount" jsonschema_description:"Recurring or total amount in CHF, empty if none"`
	ServiceFrom   string `json:"serviceFrom" jsonschema_description:"Service period start, yyyy-mm-dd, empty if none"`
	ServiceTo     string `json:"serviceTo" jsonschema_description:"Service period end, yyyy-mm-dd, empty if none"`
	NoticePeriod  string `json:"noticePeriod" jsonschema_description:"Notice period as written, e.g. 3 Monate"`
	RenewalClause string `json:"renewalClause" jsonschema_description:"Automatic renewal terms, empty if none"`
	Risks         string `json:"risks" jsonschema_description:"Unusual or risky clauses worth attention"`
	Summary       string `json:"summary" jsonschema_description:"Plain-language summary, three sentences at most"`
}

const receiptPrompt = `You are a bookkeeping assistant for Swiss small businesses.
Read the attached receipt or invoice and fill in every field of the schema.
Dates must be yyyy-mm-dd. The amount is the gross total including VAT, as a
plain decimal string without currency symbol or thousands separators. Leave a
field empty when the document does not show it. Never guess.
Suggest a debit and credit account for the booking, using ONLY account numbers
from the chart of accounts below. Leave both empty when no account fits.`

const contractPrompt = `You are a legal assistant for Swiss small businesses.
Read the attached contract and fill in every field of the schema. Dates must
be yyyy-mm-dd. Quote notice periods and renewal clauses as written. Leave a
field empty when the contract does not cover it. Write the summary in the
language of the contract.`

// ExtractReceipt reads booking fields out of a receipt image or PDF.
// chartOfAccounts is a plain listing of "number name" lines the model may
// suggest booking legs from.
func (c *Client) ExtractReceipt(ctx context.Context, contentType string, data []byte, chartOfAccounts string) (*ReceiptFields, error) {
	part, err := documentPart(contentType, data, "receipt")
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(receiptPrompt + "\n\nChart of Accounts:\n" + chartOfAccounts),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{part}),
	}

	var fields ReceiptFields
	if err := c.completeJSON(ctx, c.extractModel, "receipt_fields", messages, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// AnalyzeContract reads the key terms out of a contract document.
func (c *Client) AnalyzeContract(ctx context.Context, contentType string, data []byte) (*ContractFields, error) {
	part, err := documentPart(contentType, data, "contract")
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(contractPrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{part}),
	}

	var fields ContractFields
	if err := c.completeJSON(ctx, c.extractModel, "contract_fields", messages, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// documentPart wraps an uploaded document as a completion content part.
// Images go in as image parts, PDFs as file parts.
func documentPart(contentType string, data []byte, filename string) (openai.ChatCompletionContentPartUnionParam, error) {
	encoded := base64.StdEncoding.EncodeToString(data)
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, encoded)

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}), nil
	case contentType == "application/pdf":
		return openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURL),
			Filename: openai.String(filename + ".pdf"),
		}), nil
	default:
		return openai.ChatCompletionContentPartUnionParam{}, fmt.Errorf("unsupported document type %s", contentType)
	}
}

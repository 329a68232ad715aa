package extraction

const systemPrompt = `You are a tax assistant reviewing a document whose personal identifiers have been redacted.
Never attempt to reconstruct or guess redacted values.`

const userPrompt = `Extract the following fields from this document into a single JSON object:
"filing_status" (string), "w2_wages", "total_deductions", "ira_distributions", "capital_gain_loss" (numbers).
If a value is redacted or missing, use null.
Return only the JSON object.`

package database

// SQL shared by the Postgres stores. Columns are listed in scan order.
const (
	PDFColumns = `id, name, url, type, user_id, created_at, updated_at`

	InsertPDF = `
		INSERT INTO pdfs (name, url, type, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + PDFColumns

	SelectPDFByID = `
		SELECT ` + PDFColumns + `
		FROM pdfs
		WHERE id = $1`

	SelectPDFsByUser = `
		SELECT ` + PDFColumns + `
		FROM pdfs
		WHERE user_id = $1
		ORDER BY created_at DESC`

	MarketingStrengthColumns = `id, selected_episodes, campaign_goal, campaign_kpis, gender,
		ethnicity, age, fans_of, output_1, output_2, output_3, user_id, created_at`

	InsertMarketingStrength = `
		INSERT INTO marketing_strengths (
			selected_episodes, campaign_goal, campaign_kpis, gender,
			ethnicity, age, fans_of, output_1, output_2, output_3, user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	SelectMarketingStrengthsByUser = `
		SELECT ` + MarketingStrengthColumns + `
		FROM marketing_strengths
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
)

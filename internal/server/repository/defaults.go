package repository

import "github.com/chdeepakkumar/portfolio/internal/server/models"

// DefaultPortfolio builds the document synthesized on first read when no
// portfolio exists yet. Every section the API contract promises is present,
// so an unauthenticated first load never differs in shape from a fully
// populated portfolio. Hero is implicitly visible and stays out of the
// section order.
func DefaultPortfolio() *models.PortfolioDocument {
	return &models.PortfolioDocument{
		Sections: map[string]models.Section{
			"hero": {
				"visible": true,
				"content": map[string]any{
					"greeting":    "Hello, I'm",
					"name":        "Deepak Kumar CH",
					"title":       "Software Engineer",
					"description": "Building scalable solutions with Java, Go, and modern cloud technologies.",
				},
			},
			"about": {
				"visible": true,
				"order":   1,
				"content": map[string]any{
					"paragraphs": []any{
						"Highly motivated individual with experience in developing and implementing software solutions.",
						"Excellent problem-solving and communication skills and a passion for learning new technologies.",
					},
					"highlights": []any{
						map[string]any{"icon": "⚡", "text": "Performance Optimization"},
						map[string]any{"icon": "🚀", "text": "Scalable Architecture"},
						map[string]any{"icon": "🔧", "text": "Problem Solving"},
					},
				},
			},
			"skills": {
				"visible": true,
				"order":   2,
				"content": map[string]any{
					"categories": map[string]any{
						"Programming Languages": []any{"Java", "Go/Golang", "Python", "TypeScript", "SQL"},
						"Frameworks":            []any{"Spring Boot", "Angular", "Gin"},
						"Cloud":                 []any{"Azure Functions", "AWS S3", "Azure Key Vault"},
						"Tools & Others":        []any{"Git", "Docker", "Kubernetes", "System Design"},
					},
				},
			},
			"experience": {
				"visible": true,
				"order":   3,
				"content": map[string]any{
					"experiences": []any{
						map[string]any{
							"id":          "1",
							"company":     "DigiCert Inc.",
							"role":        "Software Engineer",
							"location":    "Bangalore",
							"period":      "Mar 2023 - Present",
							"description": "Part of the Trust Lifecycle Manager team, working on discovery, management and automation of SSL certificates.",
							"achievements": []any{
								"Engineered plugins to integrate with third-party certificate authorities using Java Spring Boot.",
								"Built features in a Go scanner application to discover open IPs and ports and retrieve installed SSL certificates.",
							},
						},
					},
				},
			},
			"education": {
				"visible": true,
				"order":   4,
				"content": map[string]any{
					"items": []any{
						map[string]any{
							"id":          "1",
							"degree":      "Bachelors of Technology - Computer Science and Engineering",
							"institution": "National Institute of Science and Technology",
							"location":    "Berhampur, India",
							"period":      "Aug 2016 - July 2020",
						},
					},
				},
			},
			"achievements": {
				"visible": true,
				"order":   5,
				"content": map[string]any{
					"items": []any{
						map[string]any{
							"id":          "1",
							"icon":        "🏆",
							"title":       "Leetcode Ranking",
							"value":       "Peak Global rank 6784",
							"description": "Competitive programming excellence",
						},
					},
				},
			},
			"contact": {
				"visible": true,
				"order":   6,
				"content": map[string]any{
					"description": "I'm always open to discussing new opportunities or interesting projects. Feel free to reach out!",
					"links": []any{
						map[string]any{
							"id":    "1",
							"name":  "GitHub",
							"url":   "https://www.github.com/chdeepakkumar",
							"icon":  "github",
							"label": "View my code repositories",
						},
					},
				},
			},
		},
		SectionOrder: []string{"about", "skills", "experience", "education", "achievements", "contact"},
	}
}

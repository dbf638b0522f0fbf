package chain

import (
	"fmt"
	"strings"
)

func instruction() string {
	return `
You are a careful assistant that works on text scraped from career pages and on candidates' CVs.
Follow the instruction given in each message exactly.
When asked for JSON, return only valid JSON with no preamble, no markdown and no text after it.
When asked for an email, return only the email.
	`
}

func extractJobsPrompt(pageText string) string {
	return fmt.Sprintf(`### SCRAPED TEXT FROM WEBSITE:
%s

### INSTRUCTION:
The scraped text is from the career's page of a website.
Your job is to extract the job postings and return them in JSON format containing
the following keys: %s, %s, %s, and %s.
Only return the valid JSON.

### VALID JSON (NO PREAMBLE):`, pageText, "`role`", "`experience`", "`skills`", "`description`")
}

func extractPortfolioPrompt(cvText string) string {
	return fmt.Sprintf(`### RAW CV TEXT:
%s

### INSTRUCTION:
The text above is from a candidate's CV. Your job is to extract the candidate's core technical skills (Techstack) and relevant project links (Links).
Return the result as a single valid JSON array containing objects. Each object must have two keys: %s and %s.

- %s: A comma-separated string of related technical skills for a specific project/area.
- %s: The exact, full URL of the project or certification related to the skills.

Example of required format:
[
  {"Techstack": "Python, TensorFlow, Keras, CNNs", "Links": "https://github.com/user/project1"},
  {"Techstack": "SQL, Tableau, Data Cleaning, ETL", "Links": "https://linkedin.com/in/user/dataproject"}
]

### VALID JSON ARRAY (NO PREAMBLE):`, cvText, "`Techstack`", "`Links`", "`Techstack`", "`Links`")
}

func writeMailPrompt(jobDescription string, links []string, p Profile) string {
	return fmt.Sprintf(`### JOB DESCRIPTION:
%s

### INSTRUCTION:
You are %s, a student of the %s.
You are currently studying %s and now you are a %s.

Your job is to write a professional email to the client regarding the job mentioned above,
explaining how your academic background and skills can contribute to fulfilling their needs.
Also add the most relevant ones from the following links to showcase related portfolio work:
%s

Do not provide a preamble.

### EMAIL (NO PREAMBLE):`, jobDescription, p.Name, p.College, p.Study, p.Position, strings.Join(links, "\n"))
}

package tools

import "strings"

func buildSummaryPrompt(resume string) string {
	return "You are a recruiting analyst. Summarize the resume below for a hiring manager.\n" +
		"Write plain text only, no markdown, lists or emojis.\n\n" +
		"Include the candidate's name if it appears, their most recent role, an estimate of total experience, " +
		"the most relevant skills and tools, and their education. Keep it to one paragraph of at most 130 words.\n\n" +
		"Format:\n" +
		"Candidate Name: <name or \"Name not found\">\n" +
		"Summary:\n<paragraph>\n\n" +
		"Resume:\n" + fence(resume)
}

func buildFeedbackPrompt(resume, jobDescription string) string {
	return "You are an applicant tracking system. Compare the resume with the job description " +
		"and judge how well the candidate matches the role.\n" +
		"Write plain text only, no markdown.\n\n" +
		"Format:\n" +
		"Candidate Name: <name or Not Found>\n" +
		"Target Role: <role from the job description>\n" +
		"ATS Match Score: <integer from 0 to 100>\n\n" +
		"Feedback Summary:\n<two or three sentences on where the resume matches and where it falls short>\n\n" +
		"Resume:\n" + fence(resume) + "\n\n" +
		"Job Description:\n" + fence(jobDescription)
}

func buildOptimizePrompt(resume, role string) string {
	return "You rewrite resumes so they read well to applicant tracking systems.\n" +
		"Rewrite the resume below for the role of " + role + ".\n" +
		"Write plain text only, no markdown or decorative symbols.\n\n" +
		"Keep every fact, date and metric from the original. Use the role's keywords where the experience " +
		"supports them and drop filler adjectives. The rewritten resume must be ready to paste into a Word document.\n\n" +
		"Format:\n" +
		"Candidate Name: <name or Not Found>\n" +
		"Target Role: " + role + "\n\n" +
		"Optimization Summary:\n<two or three sentences describing the changes>\n\n" +
		"Optimized Resume Content:\n<the full rewritten resume>\n\n" +
		"Resume:\n" + fence(resume)
}

func buildLatexPrompt(resume, role string) string {
	return "Convert the resume below into a clean single page LaTeX resume for the role of " + role + ".\n" +
		"Use only the article class and standard packages so it compiles with pdflatex, " +
		"and keep the layout simple enough for applicant tracking systems to parse.\n" +
		"Output ONLY the LaTeX source.\n\n" +
		"Resume:\n" + fence(resume)
}

func fence(s string) string {
	return `"""` + "\n" + strings.TrimSpace(s) + "\n" + `"""`
}

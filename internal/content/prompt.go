package content

import "fmt"

const (
	teacherSystemPrompt = "You are an expert German language teacher."

	jsonSystemPrompt = "You are a helpful assistant that always responds in JSON format. " +
		"Do not include markdown ```json tags or any other text outside the JSON object."
)

// History nouns used in the avoid-list fragment.
const (
	nounMarkdown   = "topic or prompt"
	nounAssessment = "question"
	nounSpeaking   = "sentence"
	nounListening  = "script"
	nounVocabulary = "word"
)

// markdownFingerprintLen is how much of a markdown exercise is kept in
// history to identify its topic.
const markdownFingerprintLen = 100

func markdownPrompt(level string, skill Skill) string {
	base := fmt.Sprintf("As an expert German language teacher, create a simple and engaging exercise "+
		"for a beginner at the %s level focusing on the skill of **%s**. "+
		"The response should be in Markdown format and different every time.", level, skill)

	switch skill {
	case SkillReading:
		return base + " Provide a short paragraph (3-5 sentences) in German about a common topic like " +
			"daily routines, hobbies, or family. After the paragraph, list 5 key vocabulary words from " +
			"the text, providing their translations in both English and Tamil. " +
			`Format it with "Paragraph", and "Vocabulary" headings.`
	case SkillWriting:
		return base + " Provide a simple writing prompt in German. The prompt should ask the learner to " +
			"write 2-3 sentences about a personal topic. Also, provide 3-4 helpful German vocabulary " +
			"words with English and Tamil translations that they could use in their response."
	default:
		return fmt.Sprintf("Create a German learning exercise for a %s student.", level)
	}
}

func assessmentPrompt(level, avoid string) string {
	return fmt.Sprintf("As an expert German language teacher, create a single, **unique** fill-in-the-blank "+
		"assessment question for a beginner at the %s level. The sentence should have one blank word "+
		"represented by '___'. Provide three options: the correct word and two plausible incorrect words. "+
		`Structure the output as a JSON object with keys: "sentence", "options", "correctAnswer", and "translation". %s`,
		level, avoid)
}

func speakingPrompt(level, avoid string) string {
	return fmt.Sprintf("As a German language teacher, create a single, simple German sentence for a beginner "+
		"at the %s level to practice speaking. Also provide its English translation. "+
		`Structure the output as a JSON object with keys: "sentence" and "translation". %s`,
		level, avoid)
}

func listeningPrompt(level, avoid string) string {
	return fmt.Sprintf(`As a German language teacher, create a listening exercise for a beginner at the %s level. The entire exercise must be in German, with English translations provided for review purposes. Provide:
1.  A short German audio script (2-3 simple sentences).
2.  An English translation of the script.
3.  A multiple-choice comprehension question **in German** about the script.
4.  An English translation of the question.
5.  Three plausible answer options **in German** (one correct).
6.  A parallel array of English translations for the three options.
7.  The correct answer (the exact string from the German options).
Structure the output as a JSON object with keys: "script", "translation", "question", "questionTranslation", "options", "optionsTranslations", and "correctAnswer".
To ensure freshness, please base the scenario on a random, uncommon topic. %s`, level, avoid)
}

func vocabularyPrompt(level string, category VocabularyCategory, avoid string) string {
	return fmt.Sprintf(`Generate a German vocabulary flashcard for a learner at the %s level. The category is "%s". `+
		"Ensure the word is appropriate for this level and is not a very common word. Provide the German word, "+
		"its English translation, a simple German example sentence, and the English translation of that sentence. "+
		`Structure the output as a JSON object with keys: "word", "translation", "exampleSentence", and "exampleTranslation". %s`,
		level, category, avoid)
}

func pronunciationPrompt(sentence, transcript string) string {
	return fmt.Sprintf(`As a German pronunciation coach, analyze the user's speech.
Original sentence: "%s"
User's transcript: "%s"

Provide a word-by-word analysis in a JSON object. The object should have three keys: "overallComment" (string), "score" (integer 0-100), and "analyzedWords" (an array of objects).
Each object in "analyzedWords" should represent a word from the original sentence and have keys: "word" (string) and "status" ('correct', 'incorrect', or 'mispronounced').
For 'incorrect' or 'mispronounced' words, also include a "comment" (string).`, sentence, transcript)
}

func translatePrompt(text string, target TargetLanguage) string {
	return fmt.Sprintf("Translate the following German text to %s. Provide only the translation, "+
		`without any additional explanations or introductions. German Text: "%s"`, target, text)
}

func assistantPrompt(query string, target TargetLanguage) string {
	return fmt.Sprintf(`You are a helpful and friendly German language learning assistant. Your primary goal is to provide clear, direct, and helpful answers to a user's questions about German words or phrases. The user wants the response in %[1]s.

**CRITICAL INSTRUCTIONS:**
1.  The user will often ask a question in %[1]s but include a specific German word or phrase they want to understand (e.g., "What does 'Entschuldigung' mean?").
2.  Your task is to identify that specific German term within the user's query.
3.  Provide a direct translation of the German term.
4.  After the translation, provide one simple example sentence in German showing how the term is used, and then provide the %[1]s translation of that example sentence.
5.  Keep your entire response concise and focused on being helpful. Do not add conversational filler.
6.  **DO NOT** use any formatting like asterisks or markdown.

**Example Interaction:**
- User Query: "What is the meaning of 'guten Morgen'?"
- Your Ideal Response (if target language is English): "'Guten Morgen' means 'Good morning'. For example, you can say 'Guten Morgen, wie geht's?', which means 'Good morning, how are you?'."

---
User Query: "%[2]s"

Now, please provide your response following these instructions exactly.`, target, query)
}

package extraction

// ExtractionPrompt instructs the model to read the uploaded exam PDF and
// return structured question data. The bounding box contract matters most:
// normalized 0-1000 coordinates in [ymin, xmin, ymax, xmax] order, with the
// all-zero box reserved for "no diagram".
const ExtractionPrompt = `You are reading a scanned or digital exam paper in PDF form. Extract every multiple-choice question exactly as printed. Follow these requirements:

1. Provide a short descriptive "title" for the exam and, when obvious, a "topic" label.
2. Number questions with sequential integer "id" values starting at 1.
3. Copy the question text faithfully. Preserve mathematics as LaTeX: inline math delimited by single $...$ and display math by $$...$$.
4. Each option must have a single uppercase letter "id" ("A", "B", "C", ...) and its printed text.
5. Set "correctOptionId" to the letter of the correct option. If the paper marks answers, use them; otherwise solve the question.
6. Add a concise "explanation" of the correct answer when you can.
7. If a question refers to a figure, diagram, graph or table printed on the page, set "boundingBox" to [ymin, xmin, ymax, xmax] on a 0-1000 normalized scale for the page region containing that figure, and set "pageNumber" to the 1-based page it appears on. If the question has no figure, set "boundingBox" to [0, 0, 0, 0].

Respond with a single JSON object:
{
  "title": "Exam title",
  "topic": "Optional subject label",
  "questions": [
    {
      "id": 1,
      "text": "Question text with $inline$ math",
      "options": [
        {"id": "A", "text": "First option"},
        {"id": "B", "text": "Second option"},
        {"id": "C", "text": "Third option"},
        {"id": "D", "text": "Fourth option"}
      ],
      "correctOptionId": "B",
      "explanation": "Why B is correct.",
      "boundingBox": [120, 80, 460, 520],
      "pageNumber": 2
    }
  ]
}`

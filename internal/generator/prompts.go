package generator

// PhrasePrompt asks for one motivational phrase in Spanish as a JSON object.
const PhrasePrompt = `Genera una frase motivacional única y original en español.
Responde SOLO con un JSON en este formato exacto:
{
  "content": "La frase motivacional aquí",
  "author": "Nombre del autor (puede ser 'Anónimo' si no conoces el autor)",
  "category": "Una categoría como: motivación, éxito, perseverancia, sueños, vida, trabajo, actitud, esperanza, constancia, pasión"
}

La frase debe ser inspiradora, positiva y motivacional.`

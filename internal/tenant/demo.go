package tenant

import "time"

// DemoFitnessConfig returns the sample gym tenant used for local
// development and tests: an Italian personal-training studio with a
// name/goal/phone qualification flow.
func DemoFitnessConfig() *Config {
	return &Config{
		ID:           "fitlab",
		BusinessName: "Fitlab",
		Industry:     "fitness",

		RequiredFields: []string{"name", "goal", "phone"},
		OptionalFields: []string{"email"},
		AttributeField: "goal",
		AttributeVocabulary: []AttributeRule{
			{Category: "aumento massa", Keywords: []string{"massa", "muscoli", "grosso", "bulk", "ipertrofia"}},
			{Category: "perdita peso", Keywords: []string{"dimagrire", "peso", "grasso", "magro", "dieta"}},
			{Category: "tonificazione", Keywords: []string{"tonificare", "tonico", "definire"}},
			{Category: "fitness generale", Keywords: []string{"mantenermi", "forma", "salute", "benessere"}},
		},

		Templates: map[string]string{
			TemplateWelcome:       "Ciao! Sono {assistantName} di {businessName}. Come posso aiutarti con il tuo allenamento?",
			"collect_name":        "Come ti chiami?",
			"collect_goal":        "Qual è il tuo obiettivo? Aumentare massa, perdere peso, tonificare o mantenerti in forma?",
			"collect_phone":       "Per la tua prova gratuita, mi serve il tuo numero di telefono.",
			TemplateClosing:       "Perfetto {name}! Ti chiamo per fissare la prova gratuita. Obiettivo: {goal}, numero: {phone}.",
			TemplateAskPhone:      "Per prenotare la sessione ho bisogno del tuo numero. Puoi condividerlo?",
			TemplateSlotsOffer:    "Perfetto! Ecco i prossimi slot disponibili per la tua sessione:",
			TemplateSlotTaken:     "Lo slot {slotDisplay} non è più disponibile. Ecco gli slot aggiornati:",
			TemplateNoSlots:       "Non ci sono slot liberi al momento. Ti chiamo per trovare un orario perfetto!",
			TemplateBookedFirst:   "Perfetto! Sessione di PROVA GRATUITA prenotata per {slotDisplay}. Ti chiamerò per confermare i dettagli. A presto in palestra!",
			TemplateBookedRegular: "Sessione personal training confermata per {slotDisplay}. Ti aspettiamo in palestra!",
			TemplateBookingFailed: "Problema nella prenotazione. Ti chiamo subito per risolvere!",
			TemplateInvalidChoice: "Scelta non valida. Scegli un numero da 1 a {slotCount}.",
			TemplateNotUnderstood: "Non ho capito bene. Puoi ripetere?",
			"not_understood_phone": "Non ho capito bene. Mi serve il tuo numero per contattarti.",
		},

		Triggers: []TriggerRule{
			{Intent: "booking", Keywords: []string{"prenota", "prenotare", "appuntamento", "fissare", "prova gratuita", "sessione"}},
			{Intent: "pricing", Keywords: []string{"prezzo", "costo", "quanto costa", "tariffe"}},
			{Intent: "services", Keywords: []string{"attrezzature", "servizi", "cosa offrite", "personal trainer"}},
			{Intent: "hours", Keywords: []string{"orari", "aperto", "che ore"}},
		},

		FAQ: []AnswerRule{
			{Topic: "prezzo", Keywords: []string{"prezzo", "costo", "quanto"}, Answer: "Personal training a {price}. Prima prova gratuita sempre!"},
			{Topic: "orari", Keywords: []string{"orari", "quando", "che ore"}, Answer: "Siamo aperti {hours}. Quando preferisci allenarti?"},
			{Topic: "dove", Keywords: []string{"dove", "indirizzo", "zona"}, Answer: "Siamo in {location}. Ti do l'indirizzo quando fissiamo!"},
			{Topic: "attrezzature", Keywords: []string{"attrezzature", "macchine", "pesi"}, Answer: "Abbiamo tutto: pesi liberi, macchine, cardio. Tutto quello che serve!"},
			{Topic: "trainer", Keywords: []string{"trainer", "istruttore"}, Answer: "Giuseppe è certificato CONI e specializzato in bodybuilding e powerlifting."},
		},

		Objections: []AnswerRule{
			{Topic: "troppo caro", Keywords: []string{"troppo caro", "costa troppo"}, Answer: "Capisco! Ma considera che investi nella tua salute. La prima prova è gratuita, che ne dici?"},
			{Topic: "non ho tempo", Keywords: []string{"non ho tempo", "poco tempo"}, Answer: "Bastano 3 allenamenti a settimana di 45 minuti. Troveremo l'orario perfetto per te!"},
			{Topic: "principiante", Keywords: []string{"principiante", "mai allenato"}, Answer: "Perfetto! Amiamo i principianti. Ti seguiamo passo passo dall'inizio."},
			{Topic: "altra palestra", Keywords: []string{"già ho palestra", "altra palestra"}, Answer: "Ottimo! Ma hai mai provato un personal trainer dedicato? Cambia tutto!"},
		},

		Variables: map[string]string{
			"assistantName": "Giuseppe",
			"price":         "35€ a sessione",
			"hours":         "6:00-20:00 tutti i giorni",
			"location":      "Milano, zona Porta Garibaldi",
			"specialty":     "personal training e aumento massa muscolare",
		},

		FallbackReply:   "Problema tecnico. Ti chiamo subito per aiutarti!",
		LLMSystemPrompt: "Sei Giuseppe, personal trainer di Fitlab a Milano. Rispondi in italiano, in modo breve, amichevole e motivante. Porta la conversazione verso una prova gratuita.",

		Calendar: CalendarPolicy{
			Timezone: "Europe/Rome",
			WorkingDays: []time.Weekday{
				time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
				time.Thursday, time.Friday, time.Saturday,
			},
			Hours:         []int{6, 7, 8, 9, 10, 11, 14, 15, 16, 17, 18, 19, 20},
			SlotDuration:  time.Hour,
			LookaheadDays: 7,
		},
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexicon

// contractionPronouns are the bases whose apostrophe suffix is a contraction.
var contractionPronouns = []string{
	"he", "she", "it", "that", "what", "who", "there", "here", "where",
}

// defaultTitles are honorifics, stored lowercase without periods.
var defaultTitles = []string{
	"mr", "mrs", "ms", "miss", "mister", "madam", "madame", "mme", "mlle",
	"dr", "doctor", "prof", "professor",
	"sir", "dame", "lady", "lord",
	"uncle", "aunt", "auntie",
	"captain", "capt", "colonel", "col", "general", "gen", "major",
	"lieutenant", "lt", "sergeant", "sgt", "officer", "detective", "inspector",
	"king", "queen", "prince", "princess", "duke", "duchess", "count", "countess",
	"saint", "st", "father", "reverend", "rev", "brother", "sister",
	"headmaster", "headmistress", "judge", "senator", "president",
}

// defaultStopwords are capitalized-at-sentence-start words that never begin
// a name: function words, pronouns, interjections, calendar words, and
// common negated contractions.
var defaultStopwords = []string{
	// articles, determiners
	"a", "an", "the", "this", "that", "these", "those", "some", "any", "every",
	"each", "all", "both", "no", "none", "another", "other", "such", "many",
	"much", "few", "several", "most", "more", "less",
	// pronouns
	"i", "me", "my", "mine", "myself", "you", "your", "yours", "yourself",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "we", "us", "our", "ours", "ourselves",
	"they", "them", "their", "theirs", "themselves",
	"who", "whom", "whose", "which", "what", "whatever", "whoever",
	"someone", "something", "somebody", "anyone", "anything", "anybody",
	"everyone", "everything", "everybody", "nobody", "nothing", "one",
	// conjunctions
	"and", "but", "or", "nor", "so", "yet", "for", "because", "although",
	"though", "while", "whereas", "unless", "until", "since", "if", "then",
	"than", "whether", "as", "once",
	// prepositions
	"about", "above", "across", "after", "against", "along", "among", "around",
	"at", "before", "behind", "below", "beneath", "beside", "besides", "between",
	"beyond", "by", "despite", "down", "during", "except", "from", "in",
	"inside", "into", "like", "near", "of", "off", "on", "onto", "out",
	"outside", "over", "past", "through", "throughout", "to", "toward",
	"towards", "under", "underneath", "up", "upon", "with", "within", "without",
	// adverbs and sentence openers
	"when", "where", "why", "how", "here", "there", "now", "just", "still",
	"even", "only", "also", "too", "very", "well", "perhaps", "maybe",
	"suddenly", "finally", "instead", "meanwhile", "however", "later",
	"soon", "again", "already", "always", "never", "sometimes", "often",
	"not", "yes", "yeah", "okay", "ok", "oh", "ah", "hey", "hello", "hi",
	"goodbye", "please", "thanks", "thank", "sorry", "well", "right", "really",
	"first", "next", "last", "today", "tonight", "tomorrow", "yesterday",
	"let", "let's", "do", "does", "did", "is", "are", "was", "were", "be",
	"been", "have", "has", "had", "can", "could", "will", "would", "shall",
	"should", "may", "might", "must",
	// contractions
	"i'm", "i'll", "i've", "i'd", "you're", "you'll", "you've", "you'd",
	"we're", "we'll", "we've", "we'd", "they're", "they'll", "they've",
	"they'd", "don't", "doesn't", "didn't", "can't", "couldn't", "won't",
	"wouldn't", "shouldn't", "isn't", "aren't", "wasn't", "weren't",
	"haven't", "hasn't", "hadn't", "mustn't", "ain't",
	// calendar
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "june", "july", "august",
	"september", "october", "november", "december",
	// document furniture
	"chapter", "part", "book", "prologue", "epilogue",
}

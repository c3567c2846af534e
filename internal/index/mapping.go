// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

// articleMapping defines the index settings and field mappings for the
// article index. The text analyzer tokenizes at word boundaries
// preserving internal hyphens, then lowercases, stems and splits
// hyphenated compounds while keeping the original form; flatten_graph
// keeps the delimiter filter's multi-position tokens safe for phrase
// matching. Entities use a plain whitespace analyzer so "_"-joined
// multi-word entities stay single tokens.
const articleMapping = `{
  "settings": {
    "analysis": {
      "tokenizer": {
        "word_hyphen": {
          "type": "pattern",
          "pattern": "\\b[\\w-]+\\b",
          "group": 0
        }
      },
      "filter": {
        "de_hyphenator": {
          "type": "word_delimiter_graph",
          "preserve_original": true
        }
      },
      "analyzer": {
        "text_analyzer": {
          "type": "custom",
          "tokenizer": "word_hyphen",
          "filter": ["lowercase", "porter_stem", "de_hyphenator", "flatten_graph"]
        },
        "entity_analyzer": {
          "type": "custom",
          "tokenizer": "whitespace",
          "filter": ["lowercase"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id_num": {"type": "text", "analyzer": "standard"},
      "title": {"type": "text", "analyzer": "text_analyzer", "boost": 3},
      "abstract": {"type": "text", "analyzer": "text_analyzer"},
      "body": {
        "type": "nested",
        "properties": {
          "name": {"type": "keyword"},
          "text": {"type": "text", "analyzer": "text_analyzer"}
        }
      },
      "body_text": {"type": "text", "analyzer": "text_analyzer"},
      "authors": {
        "type": "nested",
        "properties": {
          "first": {"type": "text"},
          "last": {"type": "text"}
        }
      },
      "publish_time": {"type": "integer"},
      "journal": {"type": "text"},
      "citations": {
        "type": "nested",
        "properties": {
          "title": {"type": "text"},
          "year": {"type": "integer"},
          "in_corpus": {"type": "integer"},
          "authors": {
            "type": "nested",
            "properties": {
              "first": {"type": "text"},
              "last": {"type": "text"}
            }
          }
        }
      },
      "in_english": {"type": "boolean"},
      "pr": {"type": "float"},
      "anchor_text": {"type": "text", "analyzer": "standard"},
      "cited_by": {
        "type": "nested",
        "properties": {
          "id": {"type": "integer"},
          "text": {"type": "text", "analyzer": "standard"}
        }
      },
      "ents": {"type": "text", "analyzer": "entity_analyzer"}
    }
  }
}`

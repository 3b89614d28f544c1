// Package main provides localization for the framegrab CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Output":        "出力先",
		"Decoding":      "デコード",
		"Logging":       "ログ",

		// Root command
		"Write the first decoded video frames of a media file as PGM images": "メディアファイルの先頭の映像フレームをPGM画像として書き出す",

		// Flags
		"YAML configuration file":                            "YAML設定ファイル",
		"Directory for the PGM files (default: .)":           "PGMファイルの出力ディレクトリ（デフォルト: .）",
		"File name prefix of the PGM files (default: frame)": "PGMファイル名の接頭辞（デフォルト: frame）",
		"Number of video packets to decode (default: 8)":     "デコードする映像パケット数（デフォルト: 8）",
		"Container backend (auto, libav, mp4, mkv)":          "コンテナのバックエンド（auto, libav, mp4, mkv）",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Log level (debug, info, warn, error)":               "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                            "全てのログ出力を抑制",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",

		// Error messages
		"Error: %s": "エラー: %s",
		"Exactly one input file argument is required": "入力ファイルの引数をちょうど1つ指定してください",

		// Summary content
		"Extraction Summary": "抽出サマリー",
		"Generated at %s":    "生成日時 %s",
		"Item":               "項目",
		"Value":              "値",
		"N/A":                "なし",

		// Input section
		"Input":    "入力",
		"Path":     "パス",
		"Format":   "フォーマット",
		"Duration": "再生時間",
		"Bit Rate": "ビットレート",
		"Streams":  "ストリーム数",

		// Video stream section
		"Video Stream":                  "映像ストリーム",
		"No video stream was selected.": "映像ストリームは選択されませんでした。",
		"Index":                         "番号",
		"Codec":                         "コーデック",
		"Decoder":                       "デコーダ",
		"Resolution":                    "解像度",
		"Frame Rate":                    "フレームレート",

		// Settings section
		"Settings":         "設定",
		"Packet Budget":    "パケット数の上限",
		"Output Directory": "出力ディレクトリ",
		"Base Name":        "ファイル名の接頭辞",
		"Backend":          "バックエンド",

		// Result section
		"Result":         "実行結果",
		"Packets Read":   "読み込んだパケット",
		"Video Packets":  "映像パケット",
		"Frames Written": "書き出したフレーム",
		"Stopped By":     "終了理由",
		"Error":          "エラー",

		// Frames section
		"Frames":    "フレーム",
		"File":      "ファイル",
		"Size":      "サイズ",
		"Key Frame": "キーフレーム",
	})
}
